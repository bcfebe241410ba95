//go:build unit

package api_test

import (
	"io"
	"log/slog"
	"testing"

	"parkshare/internal/domain/user"
	reqdto "parkshare/internal/handler/dto/request"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/jwt"
	"parkshare/tests/common/authtest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type identity struct {
	ID    uuid.UUID
	Token string
}

// authFixture signs real tokens so routes run behind the real auth middleware.
type authFixture struct {
	cfg        config.Config
	jwtService *jwt.Service
	middleware *middleware.AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, reqdto.RegisterValidators())

	cfg := config.NewTestConfig()
	svc := authtest.NewJWTHelper(cfg.JWT).Service(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &authFixture{
		cfg:        cfg,
		jwtService: svc,
		middleware: middleware.NewAuthMiddleware(svc, logger),
	}
}

func (f *authFixture) login(t *testing.T, role user.Role) identity {
	t.Helper()
	id := uuid.New()
	token, err := f.jwtService.GenerateAccessToken(id, role)
	require.NoError(t, err)
	return identity{ID: id, Token: token}
}
