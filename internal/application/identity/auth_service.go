// Package identity implements registration, login and token lifecycle use cases
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError(shared.ErrUnauthorized.Code, "Invalid username or password")
	errAccountInactive    = shared.NewDomainError(shared.ErrForbidden.Code, "Account has been deactivated")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// RefreshTokenTTL bounds how long a user-wide revocation must be remembered
	RefreshTokenTTL time.Duration
}

// AuthService handles authentication operations
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	recorder   shared.EventRecorder
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	recorder shared.EventRecorder,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		blacklist:  blacklist,
		recorder:   recorder,
		config:     config,
		logger:     logger,
	}
}

// Register creates a regular user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := user.SetName(input.FirstName, input.LastName); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "A user with that username already exists")
	}
	taken, err = s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "A user with that email already exists")
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.recorder.Record(ctx, user.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to record registration event", zap.Error(err))
	}
	user.ClearDomainEvents()

	s.logger.Info("User registered",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))
	info := ToUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
		return nil, errAccountInactive
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.SubjectFromUser(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		// a stale last_login_at is not worth failing the login for
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))
	return newLoginResult(pair, user), nil
}

// RefreshToken exchanges a refresh token for a new pair carrying the user's
// current permissions
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, tokenError(auth.ErrInvalidClaims)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errAccountInactive
	}

	pair, _, err := s.jwtService.RefreshTokenPair(input.RefreshToken, auth.SubjectFromUser(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, tokenError(err)
	}
	// the old refresh token must not be usable twice
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL(time.Now())); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}
	return newLoginResult(pair, user), nil
}

// Logout revokes the caller's access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return nil
	}
	if input.TokenTTL <= 0 {
		input.TokenTTL = s.jwtService.AccessTokenExpiration()
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		return err
	}
	s.logger.Info("User logged out",
		zap.String("user_id", input.UserID.String()),
		zap.String("jti", input.TokenJTI))
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// ChangePassword replaces the password and revokes every token issued so far
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(input.OldPassword) {
		return shared.NewValidationError("Old password is incorrect")
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.RevokeUser(ctx, userID.String(), s.config.RefreshTokenTTL); err != nil {
		return err
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return tokenError(auth.ErrTokenRevoked)
	}
	return nil
}

func newLoginResult(pair *auth.TokenPair, user *identity.User) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user),
	}
}

// tokenError maps JWT failures to unauthorized domain errors
func tokenError(err error) error {
	code := shared.ErrUnauthorized.Code
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(code, "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(code, "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenRevoked):
		return shared.NewDomainError(code, "Token has been revoked")
	default:
		return shared.NewDomainError(code, "Invalid refresh token")
	}
}
