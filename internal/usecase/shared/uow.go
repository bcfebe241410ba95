package shared

import (
	"context"
	"time"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one transaction; all of fn's writes commit or none do.
	// Serialization failures and deadlocks are retried before fn's error is returned.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Resources() ResourceRepository
	Availability() AvailabilityRepository
	Reservations() ReservationRepository
	Outbox() OutboxRepository
	Users() UserRepository
}

// ResourceRepository returns soft-deleted rows too; callers decide how to treat them.
type ResourceRepository interface {
	Create(ctx context.Context, r *resource.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	// LockByID is FindByID holding the row lock until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	Update(ctx context.Context, r *resource.Resource) error
}

type AvailabilityRepository interface {
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*availability.Window, error)
	Add(ctx context.Context, w *availability.Window) error
	Remove(ctx context.Context, resourceID, windowID uuid.UUID) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *reservation.Reservation) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ListBlocking returns booked/active reservations of the resource overlapping slot.
	ListBlocking(ctx context.Context, resourceID uuid.UUID, slot reservation.TimeSlot) ([]*reservation.Reservation, error)
	HasNonTerminal(ctx context.Context, resourceID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, r *reservation.Reservation) error
	// ListDue locks up to limit reservations with a clock-driven transition due at now,
	// skipping rows locked by other workers.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, e Event) error
	// ClaimBatch locks unsent events whose next attempt is due, oldest first.
	ClaimBatch(ctx context.Context, now time.Time, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error
}

// UserRepository.Create fails with a StateConflict-marked error when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}
