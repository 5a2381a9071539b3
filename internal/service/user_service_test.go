package service_test

import (
	"context"
	"testing"

	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:       "test-secret-with-enough-entropy",
		TokenTTLMinutes: 60,
		Issuer:          "elevator-api-test",
	}
}

func createUserService(db *gorm.DB) (*service.UserService, *auth.TokenIssuer) {
	tokens := auth.NewTokenIssuer(testAuthConfig())
	return service.NewUserService(repository.NewUserRepository(db), tokens, zap.NewNop()), tokens
}

func registerUser(t *testing.T, svc *service.UserService, username string, role domain.UserRole) *domain.UserDTO {
	t.Helper()
	user, err := svc.Register(context.Background(), &domain.RegisterUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse battery",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestUserService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := createUserService(db)
	ctx := context.Background()

	user := registerUser(t, svc, "tech1", "")
	assert.Equal(t, domain.UserRoleTechnician, user.Role)
	assert.True(t, user.IsActive)

	var stored domain.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, &domain.RegisterUserRequest{
			Username: "tech1",
			Email:    "other@example.com",
			Password: "another password",
		})
		assert.ErrorIs(t, err, service.ErrDuplicateUser)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, &domain.RegisterUserRequest{
			Username: "tech2",
			Email:    "tech1@example.com",
			Password: "another password",
		})
		assert.ErrorIs(t, err, service.ErrDuplicateUser)
	})
}

func TestUserService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, tokens := createUserService(db)
	ctx := context.Background()
	user := registerUser(t, svc, "admin", domain.UserRoleAdmin)

	resp, err := svc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.User.LastLoginAt)

	userCtx, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.True(t, userCtx.IsAdmin())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "nobody", "correct horse battery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &domain.LoginRequest{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}

	t.Run("inactive user", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "correct horse battery"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestUserService_MeAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := createUserService(db)
	admin := registerUser(t, svc, "boss", domain.UserRoleAdmin)
	tech := registerUser(t, svc, "fixer", domain.UserRoleTechnician)

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:   admin.ID,
		Username: admin.Username,
		Role:     domain.UserRoleAdmin,
		AuthType: auth.AuthTypeJWT,
	})

	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "boss", me.Username)

	err = svc.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, tech.ID))
	_, err = svc.GetByID(ctx, tech.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := createUserService(db)
	ctx := context.Background()
	registerUser(t, svc, "first", domain.UserRoleTechnician)
	second := registerUser(t, svc, "second", domain.UserRoleTechnician)

	role := domain.UserRoleAdmin
	updated, err := svc.Update(ctx, second.ID, &domain.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, updated.Role)

	taken := "first@example.com"
	_, err = svc.Update(ctx, second.ID, &domain.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, service.ErrDuplicateUser)

	_, err = svc.Update(ctx, 9999, &domain.UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := createUserService(db)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, &config.AuthConfig{}))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &domain.User{}))

	cfg := &config.AuthConfig{BootstrapAdminPassword: "bootstrap-password"}
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, cfg))
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, cfg))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &domain.User{}))

	var admin domain.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, domain.UserRoleAdmin, admin.Role)
}
