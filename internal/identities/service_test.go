package identities

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

func setupIdentityTest(t *testing.T) (IdentityService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	svc, err := NewService(zap.NewNop(), db, "test-secret", 30)
	require.NoError(t, err)
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, isAdmin, isActive bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Username:     email[:len(email)-len("@example.com")],
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     isActive,
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.Select("*").Create(user).Error)
	return user
}

func TestLogin(t *testing.T) {
	svc, db := setupIdentityTest(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", true, true)

	t.Run("admin login succeeds", func(t *testing.T) {
		resp, err := svc.Login(ctx, "admin@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, admin.ID, resp.User.ID)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, 401, apierr.StatusCode(err))
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, 401, apierr.StatusCode(err))
	})

	t.Run("inactive user rejected", func(t *testing.T) {
		createTestUser(t, db, "inactive@example.com", true, false)
		_, err := svc.Login(ctx, "inactive@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		createTestUser(t, db, "user@example.com", false, true)
		_, err := svc.Login(ctx, "user@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, 403, apierr.StatusCode(err))
	})

	t.Run("login updates last_login", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin@example.com", "password123")
		require.NoError(t, err)
		var refreshed models.User
		require.NoError(t, db.First(&refreshed, "id = ?", admin.ID).Error)
		assert.NotNil(t, refreshed.LastLogin)
	})
}

func TestValidateToken(t *testing.T) {
	svc, db := setupIdentityTest(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", true, true)

	resp, err := svc.Login(ctx, "admin@example.com", "password123")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, admin.ID.String(), claims.Subject)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
		assert.Equal(t, 401, apierr.StatusCode(err))
	})

	t.Run("token signed with different secret rejected", func(t *testing.T) {
		other, err := NewService(zap.NewNop(), db, "other-secret", 30)
		require.NoError(t, err)
		otherResp, err := other.Login(ctx, "admin@example.com", "password123")
		require.NoError(t, err)
		_, err = svc.ValidateToken(otherResp.AccessToken)
		require.Error(t, err)
	})
}

func TestUserManagement(t *testing.T) {
	svc, db := setupIdentityTest(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", true, true)

	t.Run("create user", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, &models.CreateUserRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsAdmin)
		assert.NotEmpty(t, user.PasswordHash)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, &models.CreateUserRequest{
			Username: "alice2",
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("update user fields", func(t *testing.T) {
		name := "Alice Liddell"
		inactive := false
		var alice models.User
		require.NoError(t, db.First(&alice, "email = ?", "alice@example.com").Error)

		updated, err := svc.UpdateUser(ctx, alice.ID, &models.UpdateUserRequest{
			FullName: &name,
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.Equal(t, name, updated.FullName)
		assert.False(t, updated.IsActive)
	})

	t.Run("self delete rejected", func(t *testing.T) {
		err := svc.DeleteUser(ctx, admin.ID, admin.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("delete other user", func(t *testing.T) {
		var alice models.User
		require.NoError(t, db.First(&alice, "email = ?", "alice@example.com").Error)
		require.NoError(t, svc.DeleteUser(ctx, alice.ID, admin.ID))

		_, err := svc.GetUser(ctx, alice.ID)
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}

func TestChangePassword(t *testing.T) {
	svc, db := setupIdentityTest(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com", true, true)

	t.Run("wrong current password rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, admin.ID, "wrong", "newpassword1")
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("change succeeds and old password stops working", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, admin.ID, "password123", "newpassword1"))

		_, err := svc.Login(ctx, "admin@example.com", "password123")
		require.Error(t, err)
		_, err = svc.Login(ctx, "admin@example.com", "newpassword1")
		require.NoError(t, err)
	})
}
