package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/auth"
	"github.com/cupcake/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Helper function to create a test user
func createTestUser(t *testing.T) *accounts.User {
	t.Helper()
	user, err := accounts.NewActiveUser("testuser", "test@example.org", "Password123")
	require.NoError(t, err)
	return user
}

// Helper function to create an auth service backed by mocks
func createAuthService(userRepo *MockUserRepository) *AuthService {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	logger := zap.NewNop()

	return NewAuthService(
		userRepo,
		jwtService,
		blacklist,
		DefaultAuthServiceConfig(),
		logger,
	)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	user.SetStaff(true)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
		IP:       "127.0.0.1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "testuser", result.User.Username)
	assert.True(t, result.User.IsStaff)
	assert.Equal(t, "Bearer", result.TokenType)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_StampsStaffFlagsIntoToken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	user.SetSuperuser(true)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	claims, err := newTestJWTService().ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)
	assert.True(t, claims.IsSuperuser)
	assert.Equal(t, "test@example.org", claims.Email)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "wrongpassword",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	userRepo.On("FindByUsername", ctx, "nonexistent").Return(nil, shared.ErrNotFound)

	authService := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginInput{
		Username: "nonexistent",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_LockedAccount(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	require.NoError(t, user.Lock(1*time.Hour))

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)

	authService := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestAuthService_Login_PendingAccount(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user, err := accounts.NewUser("pendinguser", "pending@example.org", "Password123")
	require.NoError(t, err)

	userRepo.On("FindByUsername", ctx, "pendinguser").Return(user, nil)

	authService := createAuthService(userRepo)

	_, err = authService.Login(ctx, LoginInput{
		Username: "pendinguser",
		Password: "Password123",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ACCOUNT_PENDING", domainErr.Code)
}

func TestAuthService_Login_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	var lastErr error
	for i := 0; i < DefaultAuthServiceConfig().MaxLoginAttempts; i++ {
		_, lastErr = authService.Login(ctx, LoginInput{
			Username: "testuser",
			Password: "wrongpassword",
		})
	}

	var domainErr *shared.DomainError
	require.True(t, errors.As(lastErr, &domainErr))
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.True(t, user.IsLocked())
}

func TestAuthService_RefreshToken_ReloadsUserFlags(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	user.SetStaff(true)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	loginResult, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	// Revoke staff between login and refresh. The rotated access token
	// must carry the downgraded flag.
	user.SetStaff(false)

	refreshResult, err := authService.RefreshToken(ctx, RefreshTokenInput{
		RefreshToken: loginResult.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, loginResult.AccessToken, refreshResult.AccessToken)

	claims, err := newTestJWTService().ValidateAccessToken(refreshResult.AccessToken)
	require.NoError(t, err)
	assert.False(t, claims.IsStaff)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	authService := createAuthService(userRepo)

	result, err := authService.RefreshToken(ctx, RefreshTokenInput{
		RefreshToken: "not-a-token",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_RefreshToken_DeactivatedUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	loginResult, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())

	_, err = authService.RefreshToken(ctx, RefreshTokenInput{
		RefreshToken: loginResult.RefreshToken,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
}

func TestAuthService_VerifyToken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	loginResult, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	result, err := authService.VerifyToken(ctx, VerifyTokenInput{
		AccessToken: loginResult.AccessToken,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, "testuser", result.Username)
	assert.False(t, result.IsStaff)
}

func TestAuthService_VerifyToken_AfterLogout(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	loginResult, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, LogoutInput{
		AccessToken: loginResult.AccessToken,
	}))

	_, err = authService.VerifyToken(ctx, VerifyTokenInput{
		AccessToken: loginResult.AccessToken,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_ForceLogout(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	target, err := accounts.NewActiveUser("target", "target@example.org", "Password123")
	require.NoError(t, err)

	userRepo.On("FindByUsername", ctx, "target").Return(target, nil)
	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	userRepo.On("Update", ctx, target).Return(nil)

	authService := createAuthService(userRepo)

	loginResult, err := authService.Login(ctx, LoginInput{
		Username: "target",
		Password: "Password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.ForceLogout(ctx, ForceLogoutInput{
		StaffUserID:  staff.ID,
		TargetUserID: target.ID,
		Reason:       "compromised credentials",
	}))

	_, err = authService.VerifyToken(ctx, VerifyTokenInput{
		AccessToken: loginResult.AccessToken,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	err := authService.ChangePassword(ctx, ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "Password123",
		NewPassword: "NewPassword456",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("NewPassword456"))
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	authService := createAuthService(userRepo)

	err := authService.ChangePassword(ctx, ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "wrongpassword",
		NewPassword: "NewPassword456",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
}
