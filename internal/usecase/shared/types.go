package shared

import (
	"context"
	"encoding/json"
	"time"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a command.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// SystemActor drives clock-based lifecycle transitions.
var SystemActor = Actor{ID: uuid.Nil, Role: user.RoleAdmin}

func (a Actor) IsSystem() bool {
	return a.Role == user.RoleAdmin
}

const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
)

type Event struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	Type        string
	Payload     []byte
	OccurredAt  time.Time
}

type OutboxRecord struct {
	Event
	Attempts int
}

type ReservationEventData struct {
	ReservationID  uuid.UUID `json:"reservation_id"`
	ResourceID     uuid.UUID `json:"resource_id"`
	RequesterID    uuid.UUID `json:"requester_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Cost           string    `json:"cost"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	ActorID        uuid.UUID `json:"actor_id"`
}

func NewReservationCreatedEvent(r *reservation.Reservation, actor Actor, now time.Time) (Event, error) {
	return newReservationEvent(EventReservationCreated, r, "", r.Status(), actor, now)
}

func NewStatusChangedEvent(r *reservation.Reservation, from, to reservation.Status, actor Actor, now time.Time) (Event, error) {
	return newReservationEvent(EventReservationStatusChanged, r, from, to, actor, now)
}

func newReservationEvent(eventType string, r *reservation.Reservation, from, to reservation.Status, actor Actor, now time.Time) (Event, error) {
	payload, err := json.Marshal(ReservationEventData{
		ReservationID:  r.ID(),
		ResourceID:     r.ResourceID(),
		RequesterID:    r.RequesterID(),
		Start:          r.TimeSlot().Start(),
		End:            r.TimeSlot().End(),
		Cost:           r.Cost().String(),
		Status:         to.String(),
		PreviousStatus: from.String(),
		ActorID:        actor.ID,
	})
	if err != nil {
		return Event{}, errs.Wrap(err, "marshal "+eventType)
	}
	return Event{
		ID:          uuid.New(),
		AggregateID: r.ID(),
		Type:        eventType,
		Payload:     payload,
		OccurredAt:  now,
	}, nil
}

// EventPublisher delivers an encoded event keyed by aggregate id.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}
