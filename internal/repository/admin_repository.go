package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourneyhub/internal/model"
)

// AdminRepository defines admin persistence operations.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	Upsert(ctx context.Context, admin *model.Admin) error
	FindByID(ctx context.Context, id uint) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds a GORM-backed repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// Upsert creates the admin or, when the email is already present, replaces
// its password hash. Used by the credential rotation tool.
func (r *adminRepository) Upsert(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
	}).Create(admin).Error
}

func (r *adminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
