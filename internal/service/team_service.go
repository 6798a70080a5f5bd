package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"gorm.io/gorm"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/notify"
	"tourneyhub/internal/repository"
)

// MaxTeamMembers caps the roster size per registration.
const MaxTeamMembers = 5

// TeamView is a team with its roster deserialized.
type TeamView struct {
	model.Team
	Members []model.Member `json:"members"`
}

// LeaderSummary is the leader identity exposed on admin listings.
type LeaderSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	DiscordID string `json:"discordId"`
}

// TeamWithLeader is a TeamView joined with its leader for the admin surface.
type TeamWithLeader struct {
	TeamView
	Leader LeaderSummary `json:"leader"`
}

// TeamService owns the team lifecycle: creation, resubmission, status
// transitions, visibility, and the proof-file ownership rule.
type TeamService interface {
	// Register creates the leader's team, or resubmits over the leader's
	// rejected row; resubmitted reports which happened. proofPath may be
	// empty when no file was uploaded.
	Register(ctx context.Context, leaderID uint, teamName string, members []model.Member, proofPath string) (view *TeamView, resubmitted bool, err error)
	// GetMyTeam returns the leader's current team, any status.
	GetMyTeam(ctx context.Context, leaderID uint) (*TeamView, error)
	// ListAll returns every team with its leader, newest first.
	ListAll(ctx context.Context) ([]TeamWithLeader, error)
	// Approve sets status to approved. Approving a team that is not pending
	// is a no-op-equivalent success, not an error.
	Approve(ctx context.Context, teamID uint) error
	// Reject sets status to rejected with an optional reason, reopening the
	// row for resubmission.
	Reject(ctx context.Context, teamID uint, reason string) error
	// Delete hard-removes the row, fully resetting the leader's eligibility.
	Delete(ctx context.Context, teamID uint) error
	// CanAccessProof reports whether the principal may read the named proof
	// file: admins always, users only for their own live team's proof.
	CanAccessProof(ctx context.Context, userID uint, isAdmin bool, filename string) (bool, error)
}

type teamService struct {
	teamRepo repository.TeamRepository
	settings SettingsService
	notifier notify.Notifier
	// Per-leader mutexes serialize concurrent Register calls in-process;
	// the row lock and unique index cover cross-process races.
	leaderMutexes sync.Map
}

// NewTeamService creates a new team service.
func NewTeamService(teamRepo repository.TeamRepository, settings SettingsService, notifier notify.Notifier) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		settings: settings,
		notifier: notifier,
	}
}

func (s *teamService) getMutex(leaderID uint) *sync.Mutex {
	value, _ := s.leaderMutexes.LoadOrStore(leaderID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func validateRegistration(teamName string, members []model.Member) (string, []model.Member, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return "", nil, apperrors.NewValidation("Team name is required")
	}
	if len(members) == 0 {
		return "", nil, apperrors.NewValidation("At least one team member is required")
	}
	if len(members) > MaxTeamMembers {
		return "", nil, apperrors.NewValidation(fmt.Sprintf("Maximum %d members allowed", MaxTeamMembers))
	}
	for i, member := range members {
		if strings.TrimSpace(member.IGN) == "" {
			return "", nil, apperrors.NewValidation(fmt.Sprintf("IGN is required for member %d", i+1))
		}
	}
	return teamName, members, nil
}

func (s *teamService) Register(ctx context.Context, leaderID uint, teamName string, members []model.Member, proofPath string) (*TeamView, bool, error) {
	// Precondition order matters: flag first, then input, then duplicates.
	open, err := s.settings.RegistrationOpen(ctx)
	if err != nil {
		return nil, false, err
	}
	if !open {
		return nil, false, apperrors.ErrRegistrationClosed
	}

	teamName, members, err = validateRegistration(teamName, members)
	if err != nil {
		return nil, false, err
	}

	mutex := s.getMutex(leaderID)
	mutex.Lock()
	defer mutex.Unlock()

	var team *model.Team
	var resubmitted bool
	err = s.teamRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TeamRepository) error {
		existing, err := txRepo.FindByLeaderIDForUpdate(ctx, leaderID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find existing team: %w", err)
		}

		if existing != nil && existing.Live() {
			return apperrors.ErrDuplicateTeam
		}

		if existing != nil {
			// Resubmission: overwrite the rejected row in place so the
			// leader keeps exactly one actively tracked row of history.
			existing.TeamName = teamName
			if err := existing.SetMembers(members); err != nil {
				return fmt.Errorf("encode members: %w", err)
			}
			existing.PaymentProofPath = proofPath
			existing.Status = model.TeamStatusPending
			existing.RejectionReason = ""
			if err := txRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("update team: %w", err)
			}
			team = existing
			resubmitted = true
			return nil
		}

		fresh := &model.Team{
			TeamName:         teamName,
			LeaderID:         leaderID,
			PaymentProofPath: proofPath,
			Status:           model.TeamStatusPending,
		}
		if err := fresh.SetMembers(members); err != nil {
			return fmt.Errorf("encode members: %w", err)
		}
		if err := txRepo.Create(ctx, fresh); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		team = fresh
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &TeamView{Team: *team, Members: members}, resubmitted, nil
}

func (s *teamService) GetMyTeam(ctx context.Context, leaderID uint) (*TeamView, error) {
	team, err := s.teamRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("find team: %w", err)
	}

	members, err := team.Members()
	if err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}

	return &TeamView{Team: *team, Members: members}, nil
}

func (s *teamService) ListAll(ctx context.Context) ([]TeamWithLeader, error) {
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	result := make([]TeamWithLeader, 0, len(teams))
	for _, team := range teams {
		members, err := team.Members()
		if err != nil {
			return nil, fmt.Errorf("decode members for team %d: %w", team.ID, err)
		}
		result = append(result, TeamWithLeader{
			TeamView: TeamView{Team: team, Members: members},
			Leader: LeaderSummary{
				ID:        team.Leader.ID,
				Name:      team.Leader.Name,
				Email:     team.Leader.Email,
				DiscordID: team.Leader.DiscordID,
			},
		})
	}
	return result, nil
}

func (s *teamService) Approve(ctx context.Context, teamID uint) error {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}

	// Repeated approval overwrites to the same state; rejection_reason is
	// left untouched since it is only shown while status is rejected.
	if err := s.teamRepo.UpdateStatus(ctx, teamID, model.TeamStatusApproved); err != nil {
		return fmt.Errorf("approve team: %w", err)
	}

	if err := s.notifier.TeamApproved(ctx, team); err != nil {
		log.Printf("approve notification for team %d: %v", teamID, err)
	}
	return nil
}

func (s *teamService) Reject(ctx context.Context, teamID uint, reason string) error {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if err := s.teamRepo.UpdateStatusReason(ctx, teamID, model.TeamStatusRejected, reason); err != nil {
		return fmt.Errorf("reject team: %w", err)
	}

	if err := s.notifier.TeamRejected(ctx, team, reason); err != nil {
		log.Printf("reject notification for team %d: %v", teamID, err)
	}
	return nil
}

func (s *teamService) Delete(ctx context.Context, teamID uint) error {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

func (s *teamService) CanAccessProof(ctx context.Context, userID uint, isAdmin bool, filename string) (bool, error) {
	if isAdmin {
		return true, nil
	}
	if userID == 0 || filename == "" {
		return false, nil
	}

	team, err := s.teamRepo.FindByLeaderID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find team: %w", err)
	}

	return team.Live() && team.PaymentProofPath == filename, nil
}

func (s *teamService) findTeam(ctx context.Context, teamID uint) (*model.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("find team: %w", err)
	}
	return team, nil
}
