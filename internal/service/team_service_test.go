package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// MockTeamRepository is a mock implementation of TeamRepository.
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id uint) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByLeaderID(ctx context.Context, leaderID uint) (*model.Team, error) {
	args := m.Called(ctx, leaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByLeaderIDForUpdate(ctx context.Context, leaderID uint) (*model.Team, error) {
	args := m.Called(ctx, leaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) ListAll(ctx context.Context) ([]model.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Team), args.Error(1)
}

func (m *MockTeamRepository) UpdateStatus(ctx context.Context, id uint, status model.TeamStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTeamRepository) UpdateStatusReason(ctx context.Context, id uint, status model.TeamStatus, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.TeamRepository) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

// MockSettingsService is a mock implementation of SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) RegistrationOpen(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsService) RegistrationOpenCached(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsService) SetRegistrationOpen(ctx context.Context, open bool) error {
	args := m.Called(ctx, open)
	return args.Error(0)
}

func (m *MockSettingsService) EntryFee(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) SetEntryFee(ctx context.Context, fee string) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) TeamApproved(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockNotifier) TeamRejected(ctx context.Context, team *model.Team, reason string) error {
	args := m.Called(ctx, team, reason)
	return args.Error(0)
}

func rosterOf(igns ...string) []model.Member {
	members := make([]model.Member, 0, len(igns))
	for _, ign := range igns {
		members = append(members, model.Member{IGN: ign})
	}
	return members
}

func TestTeamService_Register(t *testing.T) {
	tests := []struct {
		name             string
		teamName         string
		members          []model.Member
		setupMocks       func(*MockTeamRepository, *MockSettingsService)
		expectedError    error
		expectValidation bool
		wantResubmitted  bool
		wantTeamID       uint
	}{
		{
			name:     "registration closed",
			teamName: "Night Owls",
			members:  rosterOf("owl1"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(false, nil)
			},
			expectedError: apperrors.ErrRegistrationClosed,
		},
		{
			name:     "empty team name",
			teamName: "   ",
			members:  rosterOf("owl1"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
			},
			expectValidation: true,
		},
		{
			name:     "no members",
			teamName: "Night Owls",
			members:  nil,
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
			},
			expectValidation: true,
		},
		{
			name:     "roster over the cap",
			teamName: "Night Owls",
			members:  rosterOf("a", "b", "c", "d", "e", "f"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
			},
			expectValidation: true,
		},
		{
			name:     "member missing ign",
			teamName: "Night Owls",
			members:  []model.Member{{IGN: "owl1"}, {IGN: "  "}},
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
			},
			expectValidation: true,
		},
		{
			name:     "successful first registration",
			teamName: "Night Owls",
			members:  rosterOf("owl1", "owl2", "owl3", "owl4", "owl5"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
				repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				repo.On("FindByLeaderIDForUpdate", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Team")).Return(nil)
			},
		},
		{
			name:     "leader already has a live team",
			teamName: "Second Attempt",
			members:  rosterOf("owl1"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
				repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				repo.On("FindByLeaderIDForUpdate", mock.Anything, uint(1)).Return(&model.Team{
					ID:       3,
					LeaderID: 1,
					Status:   model.TeamStatusPending,
				}, nil)
			},
			expectedError: apperrors.ErrDuplicateTeam,
		},
		{
			name:     "approved team also blocks",
			teamName: "Second Attempt",
			members:  rosterOf("owl1"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
				repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				repo.On("FindByLeaderIDForUpdate", mock.Anything, uint(1)).Return(&model.Team{
					ID:       3,
					LeaderID: 1,
					Status:   model.TeamStatusApproved,
				}, nil)
			},
			expectedError: apperrors.ErrDuplicateTeam,
		},
		{
			name:     "resubmission over a rejected team",
			teamName: "Night Owls Reborn",
			members:  rosterOf("owl1", "owl2"),
			setupMocks: func(repo *MockTeamRepository, settings *MockSettingsService) {
				settings.On("RegistrationOpen", mock.Anything).Return(true, nil)
				repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				repo.On("FindByLeaderIDForUpdate", mock.Anything, uint(1)).Return(&model.Team{
					ID:              7,
					TeamName:        "Night Owls",
					LeaderID:        1,
					Status:          model.TeamStatusRejected,
					RejectionReason: "Payment proof unreadable",
				}, nil)
				repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Team")).Return(nil)
			},
			wantResubmitted: true,
			wantTeamID:      7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTeamRepository)
			mockSettings := new(MockSettingsService)
			tt.setupMocks(mockRepo, mockSettings)

			svc := NewTeamService(mockRepo, mockSettings, new(MockNotifier))
			view, resubmitted, err := svc.Register(context.Background(), 1, tt.teamName, tt.members, "proof.png")

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, view)
			case tt.expectValidation:
				var validationErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				assert.Nil(t, view)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, view)
				assert.Equal(t, tt.wantResubmitted, resubmitted)
				assert.Equal(t, model.TeamStatusPending, view.Status)
				assert.Empty(t, view.RejectionReason)
				assert.Equal(t, tt.members, view.Members)
				if tt.wantTeamID != 0 {
					assert.Equal(t, tt.wantTeamID, view.ID)
				}
			}

			mockRepo.AssertExpectations(t)
			mockSettings.AssertExpectations(t)
		})
	}
}

func TestTeamService_Register_ResubmissionResetsReview(t *testing.T) {
	rejected := &model.Team{
		ID:               7,
		TeamName:         "Night Owls",
		LeaderID:         1,
		PaymentProofPath: "old-proof.png",
		Status:           model.TeamStatusRejected,
		RejectionReason:  "Payment proof unreadable",
	}
	_ = rejected.SetMembers(rosterOf("owl1"))

	mockRepo := new(MockTeamRepository)
	mockSettings := new(MockSettingsService)
	mockSettings.On("RegistrationOpen", mock.Anything).Return(true, nil)
	mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("FindByLeaderIDForUpdate", mock.Anything, uint(1)).Return(rejected, nil)

	var saved *model.Team
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Team")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.Team)
		}).Return(nil)

	svc := NewTeamService(mockRepo, mockSettings, new(MockNotifier))
	roster := rosterOf("owl1", "owl2", "owl3")
	view, resubmitted, err := svc.Register(context.Background(), 1, "Night Owls Reborn", roster, "new-proof.png")

	assert.NoError(t, err)
	assert.True(t, resubmitted)
	assert.NotNil(t, saved)

	// The row is reused, not replaced.
	assert.Equal(t, uint(7), saved.ID)
	assert.Equal(t, "Night Owls Reborn", saved.TeamName)
	assert.Equal(t, "new-proof.png", saved.PaymentProofPath)
	assert.Equal(t, model.TeamStatusPending, saved.Status)
	assert.Empty(t, saved.RejectionReason)

	decoded, decodeErr := saved.Members()
	assert.NoError(t, decodeErr)
	assert.Equal(t, roster, decoded)
	assert.Equal(t, roster, view.Members)

	mockRepo.AssertExpectations(t)
}

func TestTeamService_GetMyTeam(t *testing.T) {
	t.Run("team found", func(t *testing.T) {
		team := &model.Team{ID: 4, TeamName: "Night Owls", LeaderID: 2, Status: model.TeamStatusRejected}
		_ = team.SetMembers(rosterOf("owl1", "owl2"))

		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByLeaderID", mock.Anything, uint(2)).Return(team, nil)

		svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
		view, err := svc.GetMyTeam(context.Background(), 2)

		assert.NoError(t, err)
		assert.Equal(t, uint(4), view.ID)
		// Rejected teams stay visible to their leader, reason included.
		assert.Equal(t, model.TeamStatusRejected, view.Status)
		assert.Equal(t, rosterOf("owl1", "owl2"), view.Members)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no team", func(t *testing.T) {
		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByLeaderID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
		view, err := svc.GetMyTeam(context.Background(), 2)

		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
		assert.Nil(t, view)
		mockRepo.AssertExpectations(t)
	})
}

func TestTeamService_ListAll(t *testing.T) {
	first := model.Team{
		ID:       2,
		TeamName: "Late Entry",
		LeaderID: 5,
		Status:   model.TeamStatusPending,
		Leader:   model.User{ID: 5, Name: "Lena", Email: "lena@example.com", DiscordID: "lena#1"},
	}
	_ = first.SetMembers(rosterOf("l1"))
	second := model.Team{
		ID:       1,
		TeamName: "Night Owls",
		LeaderID: 3,
		Status:   model.TeamStatusApproved,
		Leader:   model.User{ID: 3, Name: "Omar", Email: "omar@example.com", DiscordID: "omar#2"},
	}
	_ = second.SetMembers(rosterOf("owl1", "owl2"))

	mockRepo := new(MockTeamRepository)
	mockRepo.On("ListAll", mock.Anything).Return([]model.Team{first, second}, nil)

	svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
	teams, err := svc.ListAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, teams, 2)
	assert.Equal(t, "Late Entry", teams[0].TeamName)
	assert.Equal(t, LeaderSummary{ID: 5, Name: "Lena", Email: "lena@example.com", DiscordID: "lena#1"}, teams[0].Leader)
	assert.Equal(t, rosterOf("owl1", "owl2"), teams[1].Members)
	mockRepo.AssertExpectations(t)
}

func TestTeamService_Approve(t *testing.T) {
	t.Run("approves and notifies", func(t *testing.T) {
		team := &model.Team{ID: 9, TeamName: "Night Owls", Status: model.TeamStatusPending}

		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(team, nil)
		mockRepo.On("UpdateStatus", mock.Anything, uint(9), model.TeamStatusApproved).Return(nil)

		mockNotifier := new(MockNotifier)
		mockNotifier.On("TeamApproved", mock.Anything, team).Return(nil)

		svc := NewTeamService(mockRepo, new(MockSettingsService), mockNotifier)
		err := svc.Approve(context.Background(), 9)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("notifier failure does not fail the approval", func(t *testing.T) {
		team := &model.Team{ID: 9, Status: model.TeamStatusPending}

		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(team, nil)
		mockRepo.On("UpdateStatus", mock.Anything, uint(9), model.TeamStatusApproved).Return(nil)

		mockNotifier := new(MockNotifier)
		mockNotifier.On("TeamApproved", mock.Anything, team).Return(errors.New("webhook down"))

		svc := NewTeamService(mockRepo, new(MockSettingsService), mockNotifier)
		assert.NoError(t, svc.Approve(context.Background(), 9))
	})

	t.Run("unknown team", func(t *testing.T) {
		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
		assert.ErrorIs(t, svc.Approve(context.Background(), 404), apperrors.ErrTeamNotFound)
	})
}

func TestTeamService_Reject(t *testing.T) {
	team := &model.Team{ID: 9, TeamName: "Night Owls", Status: model.TeamStatusPending}

	mockRepo := new(MockTeamRepository)
	mockRepo.On("FindByID", mock.Anything, uint(9)).Return(team, nil)
	mockRepo.On("UpdateStatusReason", mock.Anything, uint(9), model.TeamStatusRejected, "Blurry screenshot").Return(nil)

	mockNotifier := new(MockNotifier)
	mockNotifier.On("TeamRejected", mock.Anything, team, "Blurry screenshot").Return(nil)

	svc := NewTeamService(mockRepo, new(MockSettingsService), mockNotifier)
	err := svc.Reject(context.Background(), 9, "Blurry screenshot")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestTeamService_Delete(t *testing.T) {
	t.Run("deletes existing team", func(t *testing.T) {
		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(&model.Team{ID: 9}, nil)
		mockRepo.On("Delete", mock.Anything, uint(9)).Return(nil)

		svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
		assert.NoError(t, svc.Delete(context.Background(), 9))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown team", func(t *testing.T) {
		mockRepo := new(MockTeamRepository)
		mockRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
		assert.ErrorIs(t, svc.Delete(context.Background(), 404), apperrors.ErrTeamNotFound)
	})
}

func TestTeamService_CanAccessProof(t *testing.T) {
	tests := []struct {
		name      string
		userID    uint
		isAdmin   bool
		filename  string
		setupMock func(*MockTeamRepository)
		want      bool
	}{
		{
			name:      "admin can read any proof",
			isAdmin:   true,
			filename:  "anything.png",
			setupMock: func(repo *MockTeamRepository) {},
			want:      true,
		},
		{
			name:      "anonymous is denied",
			userID:    0,
			filename:  "proof.png",
			setupMock: func(repo *MockTeamRepository) {},
			want:      false,
		},
		{
			name:     "user without a team is denied",
			userID:   2,
			filename: "proof.png",
			setupMock: func(repo *MockTeamRepository) {
				repo.On("FindByLeaderID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
			},
			want: false,
		},
		{
			name:     "owner of a live team reads their own proof",
			userID:   2,
			filename: "proof.png",
			setupMock: func(repo *MockTeamRepository) {
				repo.On("FindByLeaderID", mock.Anything, uint(2)).Return(&model.Team{
					LeaderID:         2,
					PaymentProofPath: "proof.png",
					Status:           model.TeamStatusPending,
				}, nil)
			},
			want: true,
		},
		{
			name:     "different filename is denied",
			userID:   2,
			filename: "someone-elses.png",
			setupMock: func(repo *MockTeamRepository) {
				repo.On("FindByLeaderID", mock.Anything, uint(2)).Return(&model.Team{
					LeaderID:         2,
					PaymentProofPath: "proof.png",
					Status:           model.TeamStatusApproved,
				}, nil)
			},
			want: false,
		},
		{
			name:     "rejected team no longer grants access",
			userID:   2,
			filename: "proof.png",
			setupMock: func(repo *MockTeamRepository) {
				repo.On("FindByLeaderID", mock.Anything, uint(2)).Return(&model.Team{
					LeaderID:         2,
					PaymentProofPath: "proof.png",
					Status:           model.TeamStatusRejected,
				}, nil)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTeamRepository)
			tt.setupMock(mockRepo)

			svc := NewTeamService(mockRepo, new(MockSettingsService), new(MockNotifier))
			got, err := svc.CanAccessProof(context.Background(), tt.userID, tt.isAdmin, tt.filename)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			mockRepo.AssertExpectations(t)
		})
	}
}
