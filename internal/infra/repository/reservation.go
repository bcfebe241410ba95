package repository

import (
	"context"
	"time"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/repository/converter"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db db.DBTX, arg pgquery.Reservation) error
	GetReservationForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.Reservation, error)
	ListBlockingReservations(ctx context.Context, db db.DBTX, resourceID uuid.UUID, start, end time.Time) ([]pgquery.Reservation, error)
	HasNonTerminalReservations(ctx context.Context, db db.DBTX, resourceID uuid.UUID) (bool, error)
	UpdateReservationStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status string, at time.Time) (int64, error)
	ListDueReservations(ctx context.Context, db db.DBTX, now time.Time, limit int32) ([]pgquery.Reservation, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      db.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db db.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

// Create relies on the reservations_no_overlap exclusion constraint as the last
// line against double booking; a violation surfaces as a time conflict.
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToInfra(res))
	if err == nil {
		return nil
	}
	wrapped := infra.WrapRepoErr("failed to create reservation", err)
	if infra.IsKind(wrapped, infra.KindExclusionViolated) {
		return errs.Mark(wrapped, reservation.ErrTimeConflict)
	}
	return wrapped
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr("reservation not found", err, infra.KindNotFound), reservation.ErrReservationNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}
	res, err := converter.ReservationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt reservation row", err, infra.KindDBFailure)
	}
	return res, nil
}

func (r *ReservationRepository) ListBlocking(ctx context.Context, resourceID uuid.UUID, slot reservation.TimeSlot) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListBlockingReservations(ctx, r.db, resourceID, slot.Start(), slot.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocking reservations", err)
	}
	return r.convert(rows)
}

func (r *ReservationRepository) HasNonTerminal(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	exists, err := r.queries.HasNonTerminalReservations(ctx, r.db, resourceID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check open reservations", err)
	}
	return exists, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) error {
	n, err := r.queries.UpdateReservationStatus(ctx, r.db, res.ID(), res.Status().String(), res.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if n == 0 {
		return errs.Mark(infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound), reservation.ErrReservationNotFound)
	}
	return nil
}

func (r *ReservationRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	// #nosec G115 -- batch sizes come from config and are small
	rows, err := r.queries.ListDueReservations(ctx, r.db, now, int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list due reservations", err)
	}
	return r.convert(rows)
}

func (r *ReservationRepository) convert(rows []pgquery.Reservation) ([]*reservation.Reservation, error) {
	out, err := converter.ReservationsFromInfra(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt reservation row", err, infra.KindDBFailure)
	}
	return out, nil
}
