package availability

import (
	"bytes"
	"slices"
	"time"
)

const day = 24 * time.Hour

// Catalog answers availability questions for one resource. It is immutable once
// built; callers load a fresh one per admission decision.
type Catalog struct {
	open   [7][]*Window
	closed [7][]*Window
	all    []*Window
}

func NewCatalog(windows []*Window) *Catalog {
	c := &Catalog{all: slices.Clone(windows)}
	SortWindows(c.all)
	for _, w := range c.all {
		if w.open {
			c.open[w.weekday] = append(c.open[w.weekday], w)
		} else {
			c.closed[w.weekday] = append(c.closed[w.weekday], w)
		}
	}
	return c
}

// SortWindows orders by weekday, start, end, then id.
func SortWindows(ws []*Window) {
	slices.SortFunc(ws, func(a, b *Window) int {
		if a.weekday != b.weekday {
			return int(a.weekday) - int(b.weekday)
		}
		if a.start != b.start {
			return int(a.start) - int(b.start)
		}
		if a.end != b.end {
			return int(a.end) - int(b.end)
		}
		return bytes.Compare(a.id[:], b.id[:])
	})
}

func (c *Catalog) Windows() []*Window {
	return slices.Clone(c.all)
}

// IsOpen: inside at least one open window and no closed window of that weekday.
func (c *Catalog) IsOpen(instant time.Time) bool {
	instant = instant.UTC()
	wd := instant.Weekday()
	offset := instant.Sub(truncateDay(instant))

	for _, w := range c.closed[wd] {
		if w.contains(offset) {
			return false
		}
	}
	for _, w := range c.open[wd] {
		if w.contains(offset) {
			return true
		}
	}
	return false
}

// Covers reports whether every instant of [start, end) is open. The range is cut
// at UTC midnights and each day segment is checked against that weekday's windows;
// adjacent or overlapping open windows count as one continuous range.
func (c *Catalog) Covers(start, end time.Time) bool {
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return false
	}

	for cursor := start; cursor.Before(end); {
		dayStart := truncateDay(cursor)
		segEnd := dayStart.Add(day)
		if end.Before(segEnd) {
			segEnd = end
		}
		if !c.coversDay(cursor.Weekday(), cursor.Sub(dayStart), segEnd.Sub(dayStart)) {
			return false
		}
		cursor = segEnd
	}
	return true
}

func (c *Catalog) coversDay(wd time.Weekday, from, to time.Duration) bool {
	for _, w := range c.closed[wd] {
		if w.intersects(from, to) {
			return false
		}
	}

	// open[wd] is sorted by start, so one sweep finds the union reaching from `from`.
	covered := from
	for _, w := range c.open[wd] {
		if w.start.Offset() > covered {
			break
		}
		if w.end.Offset() > covered {
			covered = w.end.Offset()
		}
		if covered >= to {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
