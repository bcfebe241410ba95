package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView represents read-optimized reservation data
type ReservationView struct {
	ID              uuid.UUID `json:"id"`
	ResourceID      uuid.UUID `json:"resource_id"`
	ResourceName    string    `json:"resource_name"`
	ResourceOwnerID uuid.UUID `json:"-"`
	RequesterID     uuid.UUID `json:"requester_id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	CostCents       int64     `json:"cost_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ReservationPage struct {
	Items []*ReservationView
	Next  *Cursor
}

// ResourceView represents read-optimized resource data
type ResourceView struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ResourcePage struct {
	Items []*ResourceView
	Next  *Cursor
}

type AvailabilityWindowView struct {
	ID         uuid.UUID `json:"id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Weekday    int       `json:"weekday"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Open       bool      `json:"open"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
