package pgquery

import (
	"context"
	"time"

	"parkshare/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationColumns = `r.id, r.resource_id, r.requester_id, r.start_at, r.end_at, r.cost_cents, r.status, r.created_at, r.updated_at`

func scanReservation(row pgx.CollectableRow) (Reservation, error) {
	var r Reservation
	err := row.Scan(&r.ID, &r.ResourceID, &r.RequesterID, &r.StartAt, &r.EndAt, &r.CostCents, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func scanReservationView(row pgx.CollectableRow) (ReservationViewRow, error) {
	var v ReservationViewRow
	err := row.Scan(&v.ID, &v.ResourceID, &v.RequesterID, &v.StartAt, &v.EndAt, &v.CostCents, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		&v.ResourceName, &v.ResourceOwnerID)
	return v, err
}

const createReservation = `
INSERT INTO reservations (id, resource_id, requester_id, start_at, end_at, cost_cents, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (q *Queries) CreateReservation(ctx context.Context, db db.DBTX, arg Reservation) error {
	_, err := db.Exec(ctx, createReservation,
		arg.ID, arg.ResourceID, arg.RequesterID, arg.StartAt, arg.EndAt, arg.CostCents, arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getReservationForUpdate = `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 FOR UPDATE`

func (q *Queries) GetReservationForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (Reservation, error) {
	rows, err := db.Query(ctx, getReservationForUpdate, id)
	if err != nil {
		return Reservation{}, err
	}
	return pgx.CollectExactlyOneRow(rows, scanReservation)
}

const listBlockingReservations = `
SELECT ` + reservationColumns + `
FROM reservations r
WHERE r.resource_id = $1
  AND r.status IN ('booked', 'active')
  AND r.start_at < $3
  AND $2 < r.end_at
ORDER BY r.start_at, r.id`

func (q *Queries) ListBlockingReservations(ctx context.Context, db db.DBTX, resourceID uuid.UUID, start, end time.Time) ([]Reservation, error) {
	rows, err := db.Query(ctx, listBlockingReservations, resourceID, start, end)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanReservation)
}

const hasNonTerminalReservations = `
SELECT EXISTS (
    SELECT 1 FROM reservations WHERE resource_id = $1 AND status IN ('booked', 'active')
)`

func (q *Queries) HasNonTerminalReservations(ctx context.Context, db db.DBTX, resourceID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, hasNonTerminalReservations, resourceID).Scan(&exists)
	return exists, err
}

const updateReservationStatus = `UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`

func (q *Queries) UpdateReservationStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status string, at time.Time) (int64, error) {
	tag, err := db.Exec(ctx, updateReservationStatus, id, status, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listDueReservations = `
SELECT ` + reservationColumns + `
FROM reservations r
WHERE (r.status = 'booked' AND r.start_at <= $1)
   OR (r.status = 'active' AND r.end_at <= $1)
ORDER BY r.start_at, r.id
LIMIT $2
FOR UPDATE SKIP LOCKED`

func (q *Queries) ListDueReservations(ctx context.Context, db db.DBTX, now time.Time, limit int32) ([]Reservation, error) {
	rows, err := db.Query(ctx, listDueReservations, now, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanReservation)
}

const reservationViewSelect = `
SELECT ` + reservationColumns + `, s.name, s.owner_id
FROM reservations r
JOIN resources s ON s.id = r.resource_id`

const getReservationView = reservationViewSelect + ` WHERE r.id = $1`

func (q *Queries) GetReservationView(ctx context.Context, db db.DBTX, id uuid.UUID) (ReservationViewRow, error) {
	rows, err := db.Query(ctx, getReservationView, id)
	if err != nil {
		return ReservationViewRow{}, err
	}
	return pgx.CollectExactlyOneRow(rows, scanReservationView)
}

type ListReservationsParams struct {
	// RequesterID or ResourceID, depending on the query
	OwnerKey     uuid.UUID
	AfterStartAt *time.Time
	AfterID      uuid.UUID
	Limit        int32
}

// Keyset on (start_at, id); a NULL after-start means the first page.
const listReservationsByRequester = reservationViewSelect + `
WHERE r.requester_id = $1
  AND ($2::timestamptz IS NULL OR (r.start_at, r.id) > ($2::timestamptz, $3::uuid))
ORDER BY r.start_at, r.id
LIMIT $4`

func (q *Queries) ListReservationsByRequester(ctx context.Context, db db.DBTX, arg ListReservationsParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationsByRequester, arg.OwnerKey, arg.AfterStartAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanReservationView)
}

const listReservationsByResource = reservationViewSelect + `
WHERE r.resource_id = $1
  AND ($2::timestamptz IS NULL OR (r.start_at, r.id) > ($2::timestamptz, $3::uuid))
ORDER BY r.start_at, r.id
LIMIT $4`

func (q *Queries) ListReservationsByResource(ctx context.Context, db db.DBTX, arg ListReservationsParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationsByResource, arg.OwnerKey, arg.AfterStartAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanReservationView)
}
