//go:build unit || e2e

package memory

import (
	"context"
	"sort"
	"time"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/domain/user"
	"parkshare/internal/infra"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/repository/converter"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	st *state
}

func (t *memTx) Resources() shared.ResourceRepository        { return resourceRepo{t.st} }
func (t *memTx) Availability() shared.AvailabilityRepository { return availabilityRepo{t.st} }
func (t *memTx) Reservations() shared.ReservationRepository  { return reservationRepo{t.st} }
func (t *memTx) Outbox() shared.OutboxRepository             { return outboxRepo{t.st} }
func (t *memTx) Users() shared.UserRepository                { return userRepo{t.st} }

func notFound(msg string, sentinel error) error {
	return errs.Mark(infra.WrapRepoErr(msg, nil, infra.KindNotFound), sentinel)
}

type resourceRepo struct{ st *state }

func (r resourceRepo) Create(_ context.Context, res *resource.Resource) error {
	if _, ok := r.st.resources[res.ID()]; ok {
		return infra.WrapRepoErr("resource exists", nil, infra.KindDuplicateKey)
	}
	r.st.resources[res.ID()] = converter.ResourceToInfra(res)
	return nil
}

func (r resourceRepo) FindByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	row, ok := r.st.resources[id]
	if !ok {
		return nil, notFound("resource not found", resource.ErrResourceNotFound)
	}
	return converter.ResourceFromInfra(row)
}

// LockByID needs no lock: transactions are already serialized.
func (r resourceRepo) LockByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return r.FindByID(ctx, id)
}

func (r resourceRepo) Update(_ context.Context, res *resource.Resource) error {
	if _, ok := r.st.resources[res.ID()]; !ok {
		return notFound("resource not found", resource.ErrResourceNotFound)
	}
	r.st.resources[res.ID()] = converter.ResourceToInfra(res)
	return nil
}

type availabilityRepo struct{ st *state }

func (r availabilityRepo) ListByResource(_ context.Context, resourceID uuid.UUID) ([]*availability.Window, error) {
	return converter.WindowsFromInfra(windowRows(r.st, resourceID)), nil
}

func (r availabilityRepo) Add(_ context.Context, w *availability.Window) error {
	if _, ok := r.st.resources[w.ResourceID()]; !ok {
		return infra.WrapRepoErr("unknown resource", nil, infra.KindForeignKeyViolated)
	}
	r.st.windows[w.ID()] = converter.WindowToInfra(w)
	return nil
}

func (r availabilityRepo) Remove(_ context.Context, resourceID, windowID uuid.UUID) error {
	row, ok := r.st.windows[windowID]
	if !ok || row.ResourceID != resourceID {
		return notFound("availability window not found", availability.ErrWindowNotFound)
	}
	delete(r.st.windows, windowID)
	return nil
}

func windowRows(st *state, resourceID uuid.UUID) []pgquery.AvailabilityWindow {
	var rows []pgquery.AvailabilityWindow
	for _, w := range st.windows {
		if w.ResourceID == resourceID {
			rows = append(rows, w)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if a.StartMinute != b.StartMinute {
			return a.StartMinute < b.StartMinute
		}
		if a.EndMinute != b.EndMinute {
			return a.EndMinute < b.EndMinute
		}
		return a.ID.String() < b.ID.String()
	})
	return rows
}

type reservationRepo struct{ st *state }

func blocks(status string) bool {
	return reservation.Status(status).Blocks()
}

func overlaps(row pgquery.Reservation, start, end time.Time) bool {
	return row.StartAt.Before(end) && start.Before(row.EndAt)
}

// Create enforces the same no-overlap rule as the reservations_no_overlap constraint.
func (r reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	row := converter.ReservationToInfra(res)
	if _, ok := r.st.resources[row.ResourceID]; !ok {
		return infra.WrapRepoErr("unknown resource", nil, infra.KindForeignKeyViolated)
	}
	if blocks(row.Status) {
		for _, other := range r.st.reservations {
			if other.ResourceID == row.ResourceID && blocks(other.Status) && overlaps(other, row.StartAt, row.EndAt) {
				return errs.Mark(infra.WrapRepoErr("overlapping reservation", nil, infra.KindExclusionViolated), reservation.ErrTimeConflict)
			}
		}
	}
	r.st.reservations[row.ID] = row
	return nil
}

func (r reservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := r.st.reservations[id]
	if !ok {
		return nil, notFound("reservation not found", reservation.ErrReservationNotFound)
	}
	return converter.ReservationFromInfra(row)
}

func (r reservationRepo) ListBlocking(_ context.Context, resourceID uuid.UUID, slot reservation.TimeSlot) ([]*reservation.Reservation, error) {
	var rows []pgquery.Reservation
	for _, row := range r.st.reservations {
		if row.ResourceID == resourceID && blocks(row.Status) && overlaps(row, slot.Start(), slot.End()) {
			rows = append(rows, row)
		}
	}
	sortReservations(rows)
	return converter.ReservationsFromInfra(rows)
}

func (r reservationRepo) HasNonTerminal(_ context.Context, resourceID uuid.UUID) (bool, error) {
	for _, row := range r.st.reservations {
		if row.ResourceID == resourceID && blocks(row.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (r reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	row, ok := r.st.reservations[res.ID()]
	if !ok {
		return notFound("reservation not found", reservation.ErrReservationNotFound)
	}
	row.Status = res.Status().String()
	row.UpdatedAt = res.UpdatedAt()
	r.st.reservations[row.ID] = row
	return nil
}

func (r reservationRepo) ListDue(_ context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	var rows []pgquery.Reservation
	for _, row := range r.st.reservations {
		switch reservation.Status(row.Status) {
		case reservation.StatusBooked:
			if !row.StartAt.After(now) {
				rows = append(rows, row)
			}
		case reservation.StatusActive:
			if !row.EndAt.After(now) {
				rows = append(rows, row)
			}
		}
	}
	sortReservations(rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return converter.ReservationsFromInfra(rows)
}

func sortReservations(rows []pgquery.Reservation) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].StartAt.Equal(rows[j].StartAt) {
			return rows[i].StartAt.Before(rows[j].StartAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
}

type outboxRepo struct{ st *state }

func (r outboxRepo) Append(_ context.Context, e shared.Event) error {
	r.st.outbox = append(r.st.outbox, outboxRow{
		OutboxEvent: pgquery.OutboxEvent{
			ID:          e.ID,
			AggregateID: e.AggregateID,
			EventType:   e.Type,
			Payload:     e.Payload,
			OccurredAt:  e.OccurredAt,
		},
		NextAttemptAt: e.OccurredAt,
	})
	return nil
}

// ClaimBatch returns due rows in append order, which is occurred_at order here.
func (r outboxRepo) ClaimBatch(_ context.Context, now time.Time, limit int) ([]shared.OutboxRecord, error) {
	var out []shared.OutboxRecord
	for _, row := range r.st.outbox {
		if len(out) == limit {
			break
		}
		if row.SentAt == nil && !row.NextAttemptAt.After(now) {
			out = append(out, toOutboxRecord(row))
		}
	}
	return out, nil
}

func (r outboxRepo) MarkSent(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.update(id, func(row *outboxRow) {
		row.Attempts++
		row.SentAt = &at
		row.LastError = ""
	})
}

func (r outboxRepo) MarkFailed(_ context.Context, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error {
	return r.update(id, func(row *outboxRow) {
		row.Attempts++
		row.NextAttemptAt = nextAttemptAt
		row.LastError = lastErr
	})
}

func (r outboxRepo) update(id uuid.UUID, fn func(row *outboxRow)) error {
	for i := range r.st.outbox {
		if r.st.outbox[i].ID == id {
			fn(&r.st.outbox[i])
			return nil
		}
	}
	return infra.WrapRepoErr("outbox event not found", nil, infra.KindNotFound)
}

type userRepo struct{ st *state }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	for _, row := range r.st.users {
		if row.Email == u.Email().Value() {
			return infra.WrapRepoErr("email already registered", nil, infra.KindDuplicateKey)
		}
	}
	r.st.users[u.ID()] = pgquery.User{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
	return nil
}

func (r userRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	row, ok := r.st.users[userID]
	if !ok {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	row.LastLoginAt.Time = at
	row.LastLoginAt.Valid = true
	row.UpdatedAt = at
	r.st.users[userID] = row
	return nil
}
