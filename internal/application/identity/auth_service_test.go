package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

const testPassword = "correct-horse"

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough-1234",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	})
}

// newTestUser builds a user with a cheap password hash
func newTestUser(t *testing.T, username string) *identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             username + "@example.com",
		PasswordHash:      string(hash),
		IsActive:          true,
		Permissions:       []string{identity.PermissionReportsRead},
	}
}

type authFixture struct {
	users     *MockUserRepository
	recorder  *MockEventRecorder
	jwt       *auth.JWTService
	blacklist *auth.CacheTokenBlacklist
	service   *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		recorder:  new(MockEventRecorder),
		jwt:       newJWTService(),
		blacklist: auth.NewCacheTokenBlacklist(cache.NewMemoryCache()),
	}
	f.service = NewAuthService(f.users, f.jwt, f.blacklist, f.recorder,
		AuthServiceConfig{RefreshTokenTTL: time.Hour}, zap.NewNop())
	return f
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "ada")
	f.users.On("FindByUsername", mock.Anything, "ada").Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	result, err := f.service.Login(context.Background(), LoginInput{Username: "ada", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "ada", result.User.Username)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.True(t, claims.HasPermission(identity.PermissionReportsRead))
	assert.False(t, claims.HasPermission(identity.PermissionAdminAccess))
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *authFixture)
		password string
		wantErr  error
	}{
		{
			name: "unknown user",
			setup: func(f *authFixture) {
				f.users.On("FindByUsername", mock.Anything, "ada").Return(nil, shared.ErrNotFound)
			},
			password: testPassword,
			wantErr:  shared.ErrUnauthorized,
		},
		{
			name: "wrong password",
			setup: func(f *authFixture) {
				f.users.On("FindByUsername", mock.Anything, "ada").Return(newTestUser(t, "ada"), nil)
			},
			password: "wrong-password",
			wantErr:  shared.ErrUnauthorized,
		},
		{
			name: "deactivated",
			setup: func(f *authFixture) {
				u := newTestUser(t, "ada")
				u.Deactivate()
				f.users.On("FindByUsername", mock.Anything, "ada").Return(u, nil)
			},
			password: testPassword,
			wantErr:  shared.ErrForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)
			_, err := f.service.Login(context.Background(), LoginInput{Username: "ada", Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
			f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture()
	f.users.On("ExistsByUsername", mock.Anything, "grace").Return(false, nil)
	f.users.On("ExistsByEmail", mock.Anything, "grace@example.com").Return(false, nil)
	f.users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	f.recorder.On("Record", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == identity.EventTypeUserRegistered
	})).Return(nil)

	info, err := f.service.Register(context.Background(), RegisterInput{
		Username: "Grace", Email: "Grace@Example.com", Password: "s3cret-pass", FirstName: "Grace",
	})
	require.NoError(t, err)
	assert.Equal(t, "grace", info.Username)
	assert.Equal(t, "Grace", info.FirstName)
	assert.False(t, info.IsStaff)
	assert.Empty(t, info.Permissions)
	f.recorder.AssertExpectations(t)
}

func TestAuthService_Register_Taken(t *testing.T) {
	f := newAuthFixture()
	f.users.On("ExistsByUsername", mock.Anything, "grace").Return(true, nil)

	_, err := f.service.Register(context.Background(), RegisterInput{
		Username: "grace", Email: "grace@example.com", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "ada")
	pair, err := f.jwt.GenerateTokenPair(auth.SubjectFromUser(user))
	require.NoError(t, err)

	// permissions granted after login show up in the refreshed token
	user.Permissions = append(user.Permissions, identity.PermissionPollsManage)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	result, err := f.service.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.HasPermission(identity.PermissionPollsManage))

	// the consumed refresh token is now revoked
	_, err = f.service.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	f := newAuthFixture()
	_, err := f.service.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	user := newTestUser(t, "ada")
	pair, err := f.jwt.GenerateTokenPair(auth.SubjectFromUser(user))
	require.NoError(t, err)
	_, err = f.service.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, f.service.Logout(ctx, LogoutInput{UserID: userID, TokenJTI: "jti-1", TokenTTL: time.Minute}))
	revoked, err := f.blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, f.service.Logout(ctx, LogoutInput{UserID: userID}))
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "ada")
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	err := f.service.ChangePassword(context.Background(), user.ID, ChangePasswordInput{OldPassword: "nope-nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	require.NoError(t, f.service.ChangePassword(context.Background(), user.ID, ChangePasswordInput{OldPassword: testPassword, NewPassword: "another-pass"}))
	assert.True(t, user.VerifyPassword("another-pass"))
	revoked, err := f.blacklist.IsUserRevoked(context.Background(), user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	cfg := config.AdminConfig{Username: "admin", Email: "admin@example.com", Password: "admin-password"}

	t.Run("creates missing admin", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "admin").Return(nil, shared.ErrNotFound)
		users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.Username == "admin" && u.IsStaff && u.Can(identity.PermissionAdminAccess)
		})).Return(nil)

		require.NoError(t, NewUserService(users, zap.NewNop()).EnsureAdmin(context.Background(), cfg))
		users.AssertExpectations(t)
	})

	t.Run("promotes existing user", func(t *testing.T) {
		users := new(MockUserRepository)
		existing := newTestUser(t, "admin")
		users.On("FindByUsername", mock.Anything, "admin").Return(existing, nil)
		users.On("Save", mock.Anything, existing).Return(nil)

		require.NoError(t, NewUserService(users, zap.NewNop()).EnsureAdmin(context.Background(), cfg))
		assert.True(t, existing.IsStaff)
		assert.True(t, existing.VerifyPassword(testPassword))
	})

	t.Run("disabled without username", func(t *testing.T) {
		users := new(MockUserRepository)
		require.NoError(t, NewUserService(users, zap.NewNop()).EnsureAdmin(context.Background(), config.AdminConfig{}))
		users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestUserService_UpdatePermissions(t *testing.T) {
	users := new(MockUserRepository)
	user := newTestUser(t, "ada")
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)
	svc := NewUserService(users, zap.NewNop())

	info, err := svc.UpdatePermissions(context.Background(), user.ID, PermissionsInput{
		Permissions: []string{identity.PermissionCatalogWrite, identity.PermissionCatalogWrite},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{identity.PermissionCatalogWrite}, info.Permissions)

	_, err = svc.UpdatePermissions(context.Background(), user.ID, PermissionsInput{Permissions: []string{"root"}})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PERMISSION", domainErr.Code)
}
