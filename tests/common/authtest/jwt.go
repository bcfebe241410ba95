//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) Service(t *testing.T) *jwt.Service {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return jwt.NewService(h.cfg.Secret, duration)
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.Service(t).GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Millisecond)
	token, err := service.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	return token
}

func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
