package reservation

import (
	"time"

	"parkshare/internal/pkg/errs"
)

var ErrInvalidTimeRange = errs.Mark(errs.New("invalid time range"), errs.ErrValidation)

// Precision is the resolution instants are stored at (timestamptz).
const Precision = time.Microsecond

// TimeSlot is the half-open UTC range [start, end).
type TimeSlot struct {
	start time.Time
	end   time.Time
}

// NewTimeSlot truncates both ends to Precision, then rejects empty or inverted
// ranges and ranges starting before now.
func NewTimeSlot(start, end, now time.Time) (TimeSlot, error) {
	start, end = start.UTC().Truncate(Precision), end.UTC().Truncate(Precision)
	if !start.Before(end) {
		return TimeSlot{}, errs.Wrap(ErrInvalidTimeRange, "start must be before end")
	}
	if start.Before(now) {
		return TimeSlot{}, errs.Wrap(ErrInvalidTimeRange, "start cannot be in the past")
	}
	return TimeSlot{start: start, end: end}, nil
}

// ReconstructTimeSlot skips validation for persisted ranges.
func ReconstructTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{start: start.UTC().Truncate(Precision), end: end.UTC().Truncate(Precision)}
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps uses the half-open test, so touching endpoints do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) Equal(other TimeSlot) bool {
	return ts.start.Equal(other.start) && ts.end.Equal(other.end)
}
