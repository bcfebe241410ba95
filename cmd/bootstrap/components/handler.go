package components

import (
	"parkshare/internal/handler"
	"parkshare/internal/handler/api"
	"parkshare/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewResourceHandler,
		api.NewReservationHandler,
		handler.NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
