package service

import (
	"serenestudy_backend/internal/config"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterHashesPasswordAndDefaultsHours(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))

	assert.NotEqual(t, "secret123", user.Password)
	assert.Equal(t, float64(4), user.DailyHours)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	require.NoError(t, svc.Register(&model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123"}))
	err := svc.Register(&model.User{Name: "Ada2", Email: "ada@example.com", Password: "secret456"})

	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	require.NoError(t, svc.Register(&model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123"}))

	token, err := svc.Login("ada@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)

	_, err = svc.Login("ada@example.com", "wrong")
	assert.Error(t, err)

	_, err = svc.Login("nobody@example.com", "secret123")
	assert.Error(t, err)
}
