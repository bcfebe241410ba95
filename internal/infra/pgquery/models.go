// Package pgquery holds the SQL statements and row types the repositories and
// read stores are built on. Every method takes the DBTX to run against, so the
// same statement serves pool reads and transactional writes.
package pgquery

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Queries struct{}

func New() *Queries {
	return &Queries{}
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLoginAt  pgtype.Timestamptz
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Resource struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Address         string
	HourlyRateCents int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       pgtype.Timestamptz
}

type AvailabilityWindow struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	Weekday     int32
	StartMinute int32
	EndMinute   int32
	IsOpen      bool
	CreatedAt   time.Time
}

type Reservation struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	RequesterID uuid.UUID
	StartAt     time.Time
	EndAt       time.Time
	CostCents   int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ReservationViewRow struct {
	Reservation
	ResourceName    string
	ResourceOwnerID uuid.UUID
}

type OutboxEvent struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	EventType   string
	Payload     []byte
	OccurredAt  time.Time
	Attempts    int32
}
