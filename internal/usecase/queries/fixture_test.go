//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/domain/user"
	"parkshare/internal/usecase/shared"
	"parkshare/tests/common/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var seedNow = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2030, 1, day, hour, 0, 0, 0, time.UTC)
}

func seedResource(t *testing.T, store *memory.Store, owner uuid.UUID) *resource.Resource {
	t.Helper()
	res, err := resource.NewResource(owner, "Spot", "1 Main St", money.MustFromCents(1000), seedNow)
	require.NoError(t, err)
	store.SeedResource(res)
	return res
}

func seedReservation(t *testing.T, store *memory.Store, res *resource.Resource, requester uuid.UUID, start, end time.Time) *reservation.Reservation {
	t.Helper()
	slot, err := reservation.NewTimeSlot(start, end, seedNow)
	require.NoError(t, err)
	r := reservation.NewReservation(res.ID(), requester, slot, money.MustFromCents(1000), seedNow)
	require.NoError(t, store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, r)
	}))
	return r
}

func actor(id uuid.UUID, role user.Role) shared.Actor {
	return shared.Actor{ID: id, Role: role}
}
