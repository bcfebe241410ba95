package reservation

import (
	"parkshare/internal/domain/availability"
	"parkshare/internal/pkg/errs"
)

var (
	ErrOutsideAvailability = errs.Mark(errs.New("requested range is outside availability"), errs.ErrAdmissionRejected)
	ErrTimeConflict        = errs.Mark(errs.New("requested range conflicts with an existing reservation"), errs.ErrAdmissionRejected)
	ErrResourceUnavailable = errs.Mark(errs.New("resource is unavailable"), errs.ErrAdmissionRejected)
)

// Admit decides whether slot may be booked given the resource's catalog and its
// existing reservations. Only booked and active reservations block. It has no side
// effects and may be called speculatively.
func Admit(catalog *availability.Catalog, slot TimeSlot, existing []*Reservation) error {
	if !catalog.Covers(slot.Start(), slot.End()) {
		return ErrOutsideAvailability
	}
	for _, other := range existing {
		if other.status.Blocks() && slot.Overlaps(other.timeSlot) {
			return errs.Wrapf(ErrTimeConflict, "overlaps reservation %s", other.id)
		}
	}
	return nil
}
