package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tourneyhub/internal/auth"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for any failed user login. The same
	// value covers "no such account" and "wrong password" so responses
	// cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrInvalidAdminCredentials is the admin-login counterpart.
	ErrInvalidAdminCredentials = errors.New("Invalid admin credentials")
	// ErrEmailTaken is returned when signing up with an existing email.
	ErrEmailTaken = errors.New("User already exists with this email")
)

// AuthService resolves credentials to principals for both kinds.
type AuthService interface {
	SignupUser(ctx context.Context, name, email, discordID, password string) (*model.User, error)
	LoginUser(ctx context.Context, email, password string) (*model.User, error)
	// LoginAdmin matches the given username against admin emails.
	LoginAdmin(ctx context.Context, username, password string) (*model.Admin, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetAdmin(ctx context.Context, id uint) (*model.Admin, error)
}

type authService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, adminRepo repository.AdminRepository) AuthService {
	return &authService{userRepo: userRepo, adminRepo: adminRepo}
}

// SignupUser creates a user with a hashed password.
func (s *authService) SignupUser(ctx context.Context, name, email, discordID, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		DiscordID:    discordID,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// LoginUser verifies a user's credentials.
func (s *authService) LoginUser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.ComparePassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginAdmin verifies an admin's credentials; the login form's username
// field carries the admin email.
func (s *authService) LoginAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, username)
	if err != nil {
		return nil, ErrInvalidAdminCredentials
	}
	if !auth.ComparePassword(password, admin.PasswordHash) {
		return nil, ErrInvalidAdminCredentials
	}
	return admin, nil
}

// GetUser resolves a session's user id to the full record.
func (s *authService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetAdmin resolves a session's admin id to the full record.
func (s *authService) GetAdmin(ctx context.Context, id uint) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}
