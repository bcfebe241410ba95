package bootstrap

import (
	"parkshare/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	FxLogger,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.MessagingModule,
	components.HandlerModule,
	components.WorkerModule,
)
