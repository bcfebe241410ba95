package resource

import (
	"strings"
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName      = errs.Mark(errs.New("resource name cannot be empty"), errs.ErrValidation)
	ErrResourceNameTooLong    = errs.Mark(errs.New("resource name is too long (max 255 characters)"), errs.ErrValidation)
	ErrAddressTooLong         = errs.Mark(errs.New("address is too long (max 500 characters)"), errs.ErrValidation)
	ErrNonPositiveHourlyRate  = errs.Mark(errs.New("hourly rate must be positive"), errs.ErrValidation)
	ErrResourceNotFound       = errs.Mark(errs.New("resource not found"), errs.ErrNotFound)
	ErrNotOwner               = errs.Mark(errs.New("caller does not own the resource"), errs.ErrAuthorization)
	ErrHasActiveReservations  = errs.Mark(errs.New("resource has active reservations"), errs.ErrStateConflict)
	ErrResourceAlreadyDeleted = errs.Mark(errs.New("resource already deleted"), errs.ErrNotFound)
)

const (
	MaxResourceNameLength = 255
	MaxAddressLength      = 500
)

type Resource struct {
	id         uuid.UUID
	ownerID    uuid.UUID
	name       string
	address    string
	hourlyRate money.Money
	isActive   bool
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

func NewResource(ownerID uuid.UUID, name, address string, hourlyRate money.Money, now time.Time) (*Resource, error) {
	name = strings.TrimSpace(name)
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	if len(address) > MaxAddressLength {
		return nil, ErrAddressTooLong
	}
	if err := validateHourlyRate(hourlyRate); err != nil {
		return nil, err
	}

	return &Resource{
		id:         uuid.New(),
		ownerID:    ownerID,
		name:       name,
		address:    address,
		hourlyRate: hourlyRate,
		isActive:   true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructResource(
	id, ownerID uuid.UUID,
	name, address string,
	hourlyRate money.Money,
	isActive bool,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Resource {
	return &Resource{
		id:         id,
		ownerID:    ownerID,
		name:       name,
		address:    address,
		hourlyRate: hourlyRate,
		isActive:   isActive,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
	}
}

func (r *Resource) IsOwnedBy(userID uuid.UUID) bool {
	return r.ownerID == userID
}

// IsBookable reports whether new reservations may be admitted.
func (r *Resource) IsBookable() bool {
	return r.isActive && r.deletedAt == nil
}

func (r *Resource) ChangeHourlyRate(rate money.Money, now time.Time) error {
	if err := validateHourlyRate(rate); err != nil {
		return err
	}
	r.hourlyRate = rate
	r.updatedAt = now
	return nil
}

// SetActive toggles admission of new reservations. Existing reservations are untouched.
func (r *Resource) SetActive(active bool, now time.Time) {
	if r.isActive == active {
		return
	}
	r.isActive = active
	r.updatedAt = now
}

// MarkDeleted soft-deletes the resource. The caller must have checked for
// non-terminal reservations under the resource row lock.
func (r *Resource) MarkDeleted(now time.Time) error {
	if r.deletedAt != nil {
		return ErrResourceAlreadyDeleted
	}
	r.deletedAt = &now
	r.isActive = false
	r.updatedAt = now
	return nil
}

func validateResourceName(name string) error {
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func validateHourlyRate(rate money.Money) error {
	if rate.Cents() <= 0 {
		return ErrNonPositiveHourlyRate
	}
	return nil
}

func (r *Resource) ID() uuid.UUID           { return r.id }
func (r *Resource) OwnerID() uuid.UUID      { return r.ownerID }
func (r *Resource) Name() string            { return r.name }
func (r *Resource) Address() string         { return r.address }
func (r *Resource) HourlyRate() money.Money { return r.hourlyRate }
func (r *Resource) IsActive() bool          { return r.isActive }
func (r *Resource) CreatedAt() time.Time    { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time    { return r.updatedAt }
func (r *Resource) DeletedAt() *time.Time   { return r.deletedAt }
