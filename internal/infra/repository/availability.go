package repository

import (
	"context"

	"parkshare/internal/domain/availability"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/repository/converter"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityWriteQueries interface {
	ListWindowsByResource(ctx context.Context, db db.DBTX, resourceID uuid.UUID) ([]pgquery.AvailabilityWindow, error)
	CreateWindow(ctx context.Context, db db.DBTX, arg pgquery.AvailabilityWindow) error
	DeleteWindow(ctx context.Context, db db.DBTX, resourceID, windowID uuid.UUID) (int64, error)
}

type AvailabilityRepository struct {
	queries AvailabilityWriteQueries
	db      db.DBTX
}

func NewAvailabilityRepository(queries AvailabilityWriteQueries, db db.DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{
		queries: queries,
		db:      db,
	}
}

func (r *AvailabilityRepository) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*availability.Window, error) {
	rows, err := r.queries.ListWindowsByResource(ctx, r.db, resourceID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list availability windows", err)
	}
	return converter.WindowsFromInfra(rows), nil
}

func (r *AvailabilityRepository) Add(ctx context.Context, w *availability.Window) error {
	if err := r.queries.CreateWindow(ctx, r.db, converter.WindowToInfra(w)); err != nil {
		return infra.WrapRepoErr("failed to add availability window", err)
	}
	return nil
}

func (r *AvailabilityRepository) Remove(ctx context.Context, resourceID, windowID uuid.UUID) error {
	n, err := r.queries.DeleteWindow(ctx, r.db, resourceID, windowID)
	if err != nil {
		return infra.WrapRepoErr("failed to remove availability window", err)
	}
	if n == 0 {
		return errs.Mark(infra.WrapRepoErr("availability window not found", nil, infra.KindNotFound), availability.ErrWindowNotFound)
	}
	return nil
}
