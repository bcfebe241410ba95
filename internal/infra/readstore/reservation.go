package readstore

import (
	"context"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationReadQueries interface {
	GetReservationView(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.ReservationViewRow, error)
	ListReservationsByRequester(ctx context.Context, db db.DBTX, arg pgquery.ListReservationsParams) ([]pgquery.ReservationViewRow, error)
	ListReservationsByResource(ctx context.Context, db db.DBTX, arg pgquery.ListReservationsParams) ([]pgquery.ReservationViewRow, error)
}

type ReservationReadStore struct {
	queries ReservationReadQueries
	db      db.DBTX
}

func NewReservationReadStore(queries ReservationReadQueries, db db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr("reservation not found", err, infra.KindNotFound), reservation.ErrReservationNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return toReservationView(row), nil
}

func (r *ReservationReadStore) ListByRequester(ctx context.Context, requesterID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListReservationsByRequester(ctx, r.db, listParams(requesterID, after, limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by requester", err)
	}
	return toReservationViews(rows), nil
}

func (r *ReservationReadStore) ListByResource(ctx context.Context, resourceID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListReservationsByResource(ctx, r.db, listParams(resourceID, after, limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by resource", err)
	}
	return toReservationViews(rows), nil
}

func listParams(key uuid.UUID, after *queries.Keyset, limit int) pgquery.ListReservationsParams {
	params := pgquery.ListReservationsParams{
		OwnerKey: key,
		// #nosec G115 -- limit is clamped to MaxListLimit+1 by the caller
		Limit: int32(limit),
	}
	if after != nil {
		start := after.Start
		params.AfterStartAt = &start
		params.AfterID = after.ID
	}
	return params
}

func toReservationViews(rows []pgquery.ReservationViewRow) []*queries.ReservationView {
	views := make([]*queries.ReservationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toReservationView(row))
	}
	return views
}

func toReservationView(row pgquery.ReservationViewRow) *queries.ReservationView {
	return &queries.ReservationView{
		ID:              row.ID,
		ResourceID:      row.ResourceID,
		ResourceName:    row.ResourceName,
		ResourceOwnerID: row.ResourceOwnerID,
		RequesterID:     row.RequesterID,
		Start:           row.StartAt.UTC(),
		End:             row.EndAt.UTC(),
		CostCents:       row.CostCents,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}
