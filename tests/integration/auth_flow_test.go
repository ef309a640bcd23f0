package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	appaccounts "github.com/cupcake/backend/internal/application/accounts"
	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/infrastructure/auth"
	"github.com/cupcake/backend/internal/infrastructure/config"
	"github.com/cupcake/backend/internal/infrastructure/persistence"
)

func newAuthService(t *testing.T, testDB *TestDB) (*appaccounts.AuthService, *persistence.GormUserRepository) {
	t.Helper()

	userRepo := persistence.NewGormUserRepository(testDB.DB)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret",
		RefreshSecret:          "integration-test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "cupcake-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	service := appaccounts.NewAuthService(
		userRepo,
		jwtService,
		blacklist,
		appaccounts.AuthServiceConfig{MaxLoginAttempts: 3, LockDuration: time.Hour},
		zaptest.NewLogger(t),
	)
	return service, userRepo
}

// TestAuthFlow_Integration exercises login, refresh, verify, and logout
// against a real database-backed user store.
func TestAuthFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()
	service, userRepo := newAuthService(t, testDB)

	user := testDB.CreateTestUser("login-user", "login-user@example.org")

	t.Run("Login, verify, refresh, logout", func(t *testing.T) {
		result, err := service.Login(ctx, appaccounts.LoginInput{
			Username: "login-user",
			Password: "Sup3rSecret!",
			IP:       "203.0.113.10",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, user.ID, result.User.ID)

		// Successful login is recorded
		stored, err := userRepo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)

		verified, err := service.VerifyToken(ctx, appaccounts.VerifyTokenInput{
			AccessToken: result.AccessToken,
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, verified.UserID)
		assert.Equal(t, "login-user", verified.Username)

		refreshed, err := service.RefreshToken(ctx, appaccounts.RefreshTokenInput{
			RefreshToken: result.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, result.RefreshToken, refreshed.RefreshToken)

		require.NoError(t, service.Logout(ctx, appaccounts.LogoutInput{
			AccessToken: result.AccessToken,
		}))

		// The revoked access token no longer verifies
		_, err = service.VerifyToken(ctx, appaccounts.VerifyTokenInput{
			AccessToken: result.AccessToken,
		})
		assert.Error(t, err)
	})

	t.Run("Wrong password increments failed attempts and locks", func(t *testing.T) {
		locked := testDB.CreateTestUser("lockable", "lockable@example.org")

		for i := 0; i < 2; i++ {
			_, err := service.Login(ctx, appaccounts.LoginInput{
				Username: "lockable",
				Password: "wrong",
			})
			require.Error(t, err)
		}

		stored, err := userRepo.FindByID(ctx, locked.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.FailedAttempts)

		// Third failure trips the lock
		_, err = service.Login(ctx, appaccounts.LoginInput{
			Username: "lockable",
			Password: "wrong",
		})
		require.Error(t, err)

		stored, err = userRepo.FindByID(ctx, locked.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsLocked())

		// Even the correct password is rejected while locked
		_, err = service.Login(ctx, appaccounts.LoginInput{
			Username: "lockable",
			Password: "Sup3rSecret!",
		})
		require.Error(t, err)
	})

	t.Run("Pending account cannot log in", func(t *testing.T) {
		pending, err := accounts.NewUser("pending-user", "pending@example.org", "Sup3rSecret!")
		require.NoError(t, err)
		require.NoError(t, userRepo.Create(ctx, pending))

		_, err = service.Login(ctx, appaccounts.LoginInput{
			Username: "pending-user",
			Password: "Sup3rSecret!",
		})
		require.Error(t, err)
	})

	t.Run("ForceLogout invalidates earlier tokens", func(t *testing.T) {
		staff := testDB.CreateTestStaffUser("auth-staff", "auth-staff@example.org")

		target := testDB.CreateTestUser("target-user", "target@example.org")
		result, err := service.Login(ctx, appaccounts.LoginInput{
			Username: "target-user",
			Password: "Sup3rSecret!",
		})
		require.NoError(t, err)

		require.NoError(t, service.ForceLogout(ctx, appaccounts.ForceLogoutInput{
			StaffUserID:  staff.ID,
			TargetUserID: target.ID,
			Reason:       "credential compromise",
		}))

		_, err = service.VerifyToken(ctx, appaccounts.VerifyTokenInput{
			AccessToken: result.AccessToken,
		})
		assert.Error(t, err)
	})
}
