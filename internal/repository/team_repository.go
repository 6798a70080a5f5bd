package repository

import (
	"context"

	"gorm.io/gorm"

	"tourneyhub/internal/model"
)

// TeamRepository defines team persistence operations.
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	Update(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, id uint) (*model.Team, error)
	// FindByLeaderID returns the leader's most recent team, any status.
	FindByLeaderID(ctx context.Context, leaderID uint) (*model.Team, error)
	// FindByLeaderIDForUpdate is FindByLeaderID with a row-level lock; call
	// it inside WithTransaction.
	FindByLeaderIDForUpdate(ctx context.Context, leaderID uint) (*model.Team, error)
	// ListAll returns every team with its leader preloaded, newest first.
	ListAll(ctx context.Context) ([]model.Team, error)
	// UpdateStatus sets status only, leaving rejection_reason untouched.
	UpdateStatus(ctx context.Context, id uint, status model.TeamStatus) error
	// UpdateStatusReason sets status and rejection_reason together.
	UpdateStatusReason(ctx context.Context, id uint, status model.TeamStatus, reason string) error
	Delete(ctx context.Context, id uint) error
	// WithTransaction executes fn within a database transaction; fn receives
	// a repository bound to that transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository builds a GORM-backed repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepository) FindByID(ctx context.Context, id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindByLeaderID(ctx context.Context, leaderID uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).
		Where("leader_id = ?", leaderID).
		Order("created_at DESC").
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindByLeaderIDForUpdate(ctx context.Context, leaderID uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("leader_id = ?", leaderID).
		Order("created_at DESC").
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) ListAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := r.db.WithContext(ctx).
		Preload("Leader").
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) UpdateStatus(ctx context.Context, id uint, status model.TeamStatus) error {
	return r.db.WithContext(ctx).Model(&model.Team{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *teamRepository) UpdateStatusReason(ctx context.Context, id uint, status model.TeamStatus, reason string) error {
	return r.db.WithContext(ctx).Model(&model.Team{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
		}).Error
}

func (r *teamRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Team{}, id).Error
}

func (r *teamRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TeamRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &teamRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
