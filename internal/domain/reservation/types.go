package reservation

import "parkshare/internal/pkg/errs"

var ErrInvalidStatus = errs.Mark(errs.New("invalid reservation status"), errs.ErrValidation)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errs.Wrapf(ErrInvalidStatus, "%q", s)
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Blocks reports whether a reservation in this status occupies its time range.
func (s Status) Blocks() bool {
	return s == StatusBooked || s == StatusActive
}

// BlockingStatuses is the set persisted queries filter on.
var BlockingStatuses = []Status{StatusBooked, StatusActive}
