package components

import (
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/readstore"
	"parkshare/internal/infra/uow"
	"parkshare/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// User
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.UserReadQueries)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Resource + availability
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ResourceReadQueries)),
		),
		fx.Annotate(
			readstore.NewResourceReadStore,
			fx.As(new(queries.ResourceReadStore)),
		),
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
		// Reservation
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ReservationReadQueries)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
	),
)

// Write-side repositories are bound per transaction inside the unit of work.
var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *pgquery.Queries {
	return pgquery.New()
}

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
