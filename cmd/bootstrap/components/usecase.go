package components

import (
	"parkshare/internal/domain/reservation"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/keylock"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	// one process-wide guard per resource for booking admission
	keylock.New,
	fx.Annotate(
		reservation.NewHourlyPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookingCommands,
		commands.NewResourceCommands,
		commands.NewAvailabilityCommands,
		commands.NewLifecycleSweeper,
		commands.NewOutboxRelay,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewResourceQueries,
	),
)
