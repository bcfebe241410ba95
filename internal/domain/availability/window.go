package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidWeekday   = errs.Mark(errs.New("weekday must be between 0 (Sunday) and 6"), errs.ErrValidation)
	ErrInvalidTimeOfDay = errs.Mark(errs.New("time of day must be HH:MM between 00:00 and 24:00"), errs.ErrValidation)
	ErrEmptyWindow      = errs.Mark(errs.New("window start must be before end"), errs.ErrValidation)
	ErrWindowNotFound   = errs.Mark(errs.New("availability window not found"), errs.ErrNotFound)
)

const minutesPerDay = 24 * 60

// TimeOfDay is minutes since midnight UTC. 1440 (24:00) is only meaningful as a window end.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	t := TimeOfDay(hour*60 + minute)
	if t > minutesPerDay {
		return 0, ErrInvalidTimeOfDay
	}
	return t, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, errs.Wrapf(ErrInvalidTimeOfDay, "%q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, errs.Wrapf(ErrInvalidTimeOfDay, "%q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, errs.Wrapf(ErrInvalidTimeOfDay, "%q", s)
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Offset is the duration from midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t) * time.Minute
}

func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Window is a weekly recurring range [start, end) on one weekday. Closed windows
// carve time out of open ones.
type Window struct {
	id         uuid.UUID
	resourceID uuid.UUID
	weekday    time.Weekday
	start      TimeOfDay
	end        TimeOfDay
	open       bool
	createdAt  time.Time
}

func NewWindow(resourceID uuid.UUID, weekday int, start, end TimeOfDay, open bool, now time.Time) (*Window, error) {
	if weekday < 0 || weekday > 6 {
		return nil, ErrInvalidWeekday
	}
	if start < 0 || end > minutesPerDay {
		return nil, ErrInvalidTimeOfDay
	}
	if start >= end {
		return nil, ErrEmptyWindow
	}
	return &Window{
		id:         uuid.New(),
		resourceID: resourceID,
		weekday:    time.Weekday(weekday),
		start:      start,
		end:        end,
		open:       open,
		createdAt:  now,
	}, nil
}

func ReconstructWindow(
	id, resourceID uuid.UUID,
	weekday time.Weekday,
	start, end TimeOfDay,
	open bool,
	createdAt time.Time,
) *Window {
	return &Window{
		id:         id,
		resourceID: resourceID,
		weekday:    weekday,
		start:      start,
		end:        end,
		open:       open,
		createdAt:  createdAt,
	}
}

// contains reports whether the day offset lies in [start, end).
func (w *Window) contains(offset time.Duration) bool {
	return w.start.Offset() <= offset && offset < w.end.Offset()
}

// intersects reports whether [from, to) overlaps [start, end).
func (w *Window) intersects(from, to time.Duration) bool {
	return w.start.Offset() < to && from < w.end.Offset()
}

func (w *Window) ID() uuid.UUID         { return w.id }
func (w *Window) ResourceID() uuid.UUID { return w.resourceID }
func (w *Window) Weekday() time.Weekday { return w.weekday }
func (w *Window) Start() TimeOfDay      { return w.start }
func (w *Window) End() TimeOfDay        { return w.end }
func (w *Window) IsOpen() bool          { return w.open }
func (w *Window) CreatedAt() time.Time  { return w.createdAt }
