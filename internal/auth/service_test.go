package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playarena/internal/shared/config"
	"playarena/internal/users"
)

func setup(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}))

	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:           "test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: time.Hour,
	}}
	return db, NewService(NewRepository(db), cfg)
}

func register(t *testing.T, svc Service, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Asha", LastName: "Rao", Email: email, Password: "qwerty",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_StartsAsUserAndNormalisesEmail(t *testing.T) {
	_, svc := setup(t)

	resp := register(t, svc, "  Asha@Example.com ")

	assert.Equal(t, "asha@example.com", resp.User.Email)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Other", LastName: "Person", Email: "ASHA@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	_, svc := setup(t)
	register(t, svc, "asha@example.com")
	ctx := context.Background()

	_, err := svc.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "wrong!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "qwerty"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "Asha@Example.com", Password: "qwerty"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeAccess, claims.Type)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRefreshToken_PicksUpPromotedRole(t *testing.T) {
	db, svc := setup(t)
	resp := register(t, svc, "asha@example.com")

	require.NoError(t, db.Model(&users.User{}).Where("id = ?", resp.User.ID).Update("role", users.RoleVendor).Error)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleVendor), claims.Role)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	_, svc := setup(t)
	resp := register(t, svc, "asha@example.com")

	_, err := svc.RefreshToken(context.Background(), resp.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	_, svc := setup(t)
	resp := register(t, svc, "asha@example.com")
	userID := uuid.MustParse(resp.User.ID)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, userID, &ChangePasswordRequest{CurrentPassword: "nope!!", NewPassword: "newpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, userID, &ChangePasswordRequest{CurrentPassword: "qwerty", NewPassword: "newpass"}))
	_, err = svc.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "newpass"})
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, uuid.New(), &ChangePasswordRequest{CurrentPassword: "qwerty", NewPassword: "newpass"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
