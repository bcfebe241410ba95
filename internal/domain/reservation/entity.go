package reservation

import (
	"fmt"
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.Mark(errs.New("reservation not found"), errs.ErrNotFound)
	ErrInvalidTransition   = errs.New("invalid status transition")
)

// InvalidTransitionError carries the rejected edge. Match it with errs.As, or the
// category with errs.Is(err, ErrInvalidTransition).
type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition reservation from %s to %s: %s", e.From, e.To, e.Reason)
}

func invalidTransition(from, to Status, reason string) error {
	err := errs.Mark(&InvalidTransitionError{From: from, To: to, Reason: reason}, ErrInvalidTransition)
	return errs.Mark(err, errs.ErrStateConflict)
}

type Reservation struct {
	id          uuid.UUID
	resourceID  uuid.UUID
	requesterID uuid.UUID
	timeSlot    TimeSlot
	status      Status
	cost        money.Money
	createdAt   time.Time
	updatedAt   time.Time
}

// NewReservation builds an admitted reservation in its initial state.
func NewReservation(resourceID, requesterID uuid.UUID, slot TimeSlot, cost money.Money, now time.Time) *Reservation {
	return &Reservation{
		id:          uuid.New(),
		resourceID:  resourceID,
		requesterID: requesterID,
		timeSlot:    slot,
		status:      StatusBooked,
		cost:        cost,
		createdAt:   now,
		updatedAt:   now,
	}
}

func ReconstructReservation(
	id, resourceID, requesterID uuid.UUID,
	timeSlot TimeSlot,
	status Status,
	cost money.Money,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		resourceID:  resourceID,
		requesterID: requesterID,
		timeSlot:    timeSlot,
		status:      status,
		cost:        cost,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// TransitionTo moves the reservation to target. Replaying the current active,
// completed or cancelled state succeeds with changed=false. On error the
// reservation is left untouched.
func (r *Reservation) TransitionTo(target Status, now time.Time, cancelGrace time.Duration) (changed bool, err error) {
	if !target.IsValid() {
		return false, errs.Wrapf(ErrInvalidStatus, "%q", target)
	}
	from := r.status

	if from == target {
		if target == StatusBooked {
			return false, invalidTransition(from, target, "reservation is already booked")
		}
		return false, nil
	}

	switch {
	case from == StatusBooked && target == StatusActive:
		if now.Before(r.timeSlot.Start()) {
			return false, invalidTransition(from, target, "start time has not been reached")
		}
	case from == StatusBooked && target == StatusCancelled:
		if !now.Before(r.timeSlot.Start().Add(-cancelGrace)) {
			return false, invalidTransition(from, target, "cancellation window has closed")
		}
	case from == StatusActive && target == StatusCompleted:
		if now.Before(r.timeSlot.End()) {
			return false, invalidTransition(from, target, "end time has not been reached")
		}
	case from == StatusActive && target == StatusCancelled:
		return false, invalidTransition(from, target, "reservation is in progress")
	case from.IsTerminal():
		return false, invalidTransition(from, target, "reservation is "+from.String())
	default:
		return false, invalidTransition(from, target, "transition not allowed")
	}

	r.status = target
	r.updatedAt = now
	return true, nil
}

// Advance applies every clock-driven transition that is due at now. It returns
// the statuses passed through, in order.
func (r *Reservation) Advance(now time.Time) []Status {
	var steps []Status
	if r.status == StatusBooked {
		if ok, _ := r.TransitionTo(StatusActive, now, 0); ok {
			steps = append(steps, StatusActive)
		}
	}
	if r.status == StatusActive {
		if ok, _ := r.TransitionTo(StatusCompleted, now, 0); ok {
			steps = append(steps, StatusCompleted)
		}
	}
	return steps
}

func (r *Reservation) IsRequestedBy(userID uuid.UUID) bool {
	return r.requesterID == userID
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) ResourceID() uuid.UUID  { return r.resourceID }
func (r *Reservation) RequesterID() uuid.UUID { return r.requesterID }
func (r *Reservation) TimeSlot() TimeSlot     { return r.timeSlot }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) Cost() money.Money      { return r.cost }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }
