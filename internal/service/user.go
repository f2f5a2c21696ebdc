package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/repository"
)

// UserService handles account management
type UserService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
	cost     int
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.Named("users"),
		cost:     bcrypt.DefaultCost,
	}
}

// CreateOrReplaceUser stores a user, overwriting password and role when the username exists.
// The password is kept as a bcrypt hash.
func (s *UserService) CreateOrReplaceUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user saved", zap.String("username", username), zap.String("role", string(role)))
	return user, nil
}

// FindUser returns the user or domain.ErrUserNotFound
func (s *UserService) FindUser(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// VerifyCredentials reports whether password matches the stored hash for username
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil, nil
}

// ListUsers returns every account ordered by username
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// EnsureAdmin creates the administrator account unless the username already exists
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.CreateOrReplaceUser(ctx, username, password, domain.RoleAdministrator); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}
