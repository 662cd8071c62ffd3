package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// UserService handles staff-side user management
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// EnsureAdmin creates the configured bootstrap staff account when it is missing.
// An existing account is promoted to staff but its password is left alone.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Username == "" {
		return nil
	}
	user, err := s.users.FindByUsername(ctx, cfg.Username)
	switch {
	case err == nil:
		if user.IsStaff {
			return nil
		}
		user.PromoteToStaff()
		if err := s.users.Save(ctx, user); err != nil {
			return err
		}
		s.logger.Info("Bootstrap user promoted to staff", zap.String("username", user.Username))
		return nil
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}

	user, err = identity.NewUser(cfg.Username, cfg.Email, cfg.Password)
	if err != nil {
		return err
	}
	user.PromoteToStaff()
	user.ClearDomainEvents()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Bootstrap admin created",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))
	return nil
}

// Get returns a user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// UpdatePermissions replaces a user's permissions and, when given, staff status.
// Tokens already issued keep their claims until they are refreshed.
func (s *UserService) UpdatePermissions(ctx context.Context, id uuid.UUID, input PermissionsInput) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.GrantPermissions(input.Permissions); err != nil {
		return nil, err
	}
	if input.IsStaff != nil {
		user.IsStaff = *input.IsStaff
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User permissions updated",
		zap.String("user_id", id.String()),
		zap.Strings("permissions", user.Permissions),
		zap.Bool("is_staff", user.IsStaff))
	info := ToUserInfo(user)
	return &info, nil
}
