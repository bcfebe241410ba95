package bootstrap

import (
	"fmt"
	"time"

	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		fx.Annotate(
			NewJWTService,
			fx.As(fx.Self()),
			fx.As(new(middleware.TokenValidator)),
		),
	),
)

func NewJWTService(cfg config.Config) (*jwt.Service, error) {
	duration, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_DURATION: %w", err)
	}
	return jwt.NewService(cfg.JWT.Secret, duration), nil
}
