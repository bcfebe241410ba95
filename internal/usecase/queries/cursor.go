package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxListLimit     = 200
	DefaultListLimit = 20
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.Mark(errs.New("invalid cursor"), errs.ErrValidation)

// Keyset is the (sort instant, id) position a page continues after. Reservations
// sort by start, resources by creation time.
type Keyset struct {
	Start time.Time
	ID    uuid.UUID
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	cursorData := fmt.Sprintf("%s:%d-%s", CursorVersionV1, t.UnixMicro(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "cursor cannot be empty")
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "not base64url")
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "unknown cursor version")
	}

	parts := strings.SplitN(payload, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, errs.Wrap(ErrInvalidCursor, "expected '<micros>-<uuid>'")
	}

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Wrapf(ErrInvalidCursor, "invalid timestamp %q", parts[0])
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Wrapf(ErrInvalidCursor, "invalid uuid %q", parts[1])
	}

	return time.UnixMicro(timestamp).UTC(), id, nil
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

func (c *Cursor) keyset() (*Keyset, error) {
	if c == nil || c.After == "" {
		return nil, nil
	}
	start, id, err := DecodeAfterCursor(c.After)
	if err != nil {
		return nil, err
	}
	return &Keyset{Start: start, ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func resourcePage(rows []*ResourceView, limit int) *ResourcePage {
	if len(rows) <= limit {
		return &ResourcePage{Items: rows}
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return &ResourcePage{
		Items: rows,
		Next:  &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)},
	}
}

// page trims the one-row lookahead and builds the next cursor from the last item.
func page(rows []*ReservationView, limit int) *ReservationPage {
	if len(rows) <= limit {
		return &ReservationPage{Items: rows}
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return &ReservationPage{
		Items: rows,
		Next:  &Cursor{After: EncodeAfterCursor(last.Start, last.ID)},
	}
}
