package bootstrap

import (
	"log/slog"

	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log)
}

// FxLogger routes fx lifecycle events through the application logger.
var FxLogger = fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
	l := &fxevent.SlogLogger{Logger: logger}
	l.UseLogLevel(slog.LevelDebug)
	return l
})
