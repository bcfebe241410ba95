//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/keylock"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/shared"
	"parkshare/tests/common/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// monday is 2030-01-07, a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2030, 1, 7, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	store        *memory.Store
	clock        *clock.MockClock
	cfg          config.Config
	locks        *keylock.Locker
	logger       *slog.Logger
	booking      commands.BookingCommands
	resources    commands.ResourceCommands
	availability commands.AvailabilityCommands
	sweeper      commands.LifecycleSweeper

	owner    shared.Actor
	renter   shared.Actor
	stranger shared.Actor
	resource *resource.Resource
}

// newFixture seeds one resource at 10.00/h open Monday 08:00-20:00, with the
// clock at Monday 06:00.
func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.Booking.LockWait = 500 * time.Millisecond
	cfg.Booking.RetryBackoff = time.Millisecond
	for _, m := range mutate {
		m(&cfg)
	}

	f := &fixture{
		store:    memory.NewStore(),
		clock:    clock.NewMockClock(monday(6, 0)),
		cfg:      cfg,
		locks:    keylock.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		owner:    shared.Actor{ID: uuid.New(), Role: user.RoleOwner},
		renter:   shared.Actor{ID: uuid.New(), Role: user.RoleRenter},
		stranger: shared.Actor{ID: uuid.New(), Role: user.RoleRenter},
	}
	f.booking = commands.NewBookingCommands(f.store, f.store.ResourceReadStore(), f.locks,
		reservation.NewHourlyPriceCalculator(), f.clock, cfg, f.logger)
	f.resources = commands.NewResourceCommands(f.store, f.clock, f.logger)
	f.availability = commands.NewAvailabilityCommands(f.store, f.clock)
	f.sweeper = commands.NewLifecycleSweeper(f.store, f.clock, cfg, f.logger)

	res, err := resource.NewResource(f.owner.ID, "Spot A", "1 Main St", money.MustFromCents(1000), f.clock.Now())
	require.NoError(t, err)
	f.store.SeedResource(res)
	f.resource = res

	f.addWindow(t, 1, "08:00", "20:00", true)
	return f
}

func (f *fixture) addWindow(t *testing.T, weekday int, start, end string, open bool) {
	t.Helper()
	_, err := f.availability.AddWindow(context.Background(), f.resource.ID(), commands.AddWindowRequest{
		Weekday: weekday, Start: start, End: end, Open: open,
	}, f.owner)
	require.NoError(t, err)
}

func (f *fixture) book(start, end time.Time) (uuid.UUID, error) {
	return f.bookAs(f.renter, start, end)
}

func (f *fixture) bookAs(actor shared.Actor, start, end time.Time) (uuid.UUID, error) {
	view, err := f.booking.CreateReservation(context.Background(), commands.CreateReservationRequest{
		ResourceID: f.resource.ID(), Start: start, End: end,
	}, actor)
	if err != nil {
		return uuid.Nil, err
	}
	return view.ID, nil
}

func (f *fixture) eventsOfType(eventType string) []shared.OutboxRecord {
	var out []shared.OutboxRecord
	for _, e := range f.store.OutboxEvents() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (f *fixture) status(t *testing.T, id uuid.UUID) string {
	t.Helper()
	view, err := f.store.ReservationReadStore().FindByID(context.Background(), id)
	require.NoError(t, err)
	return view.Status
}
