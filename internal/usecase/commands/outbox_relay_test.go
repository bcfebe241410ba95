//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	key   string
	value []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{key: key, value: value})
	return nil
}

func (p *fakePublisher) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakePublisher) sent() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedMessage(nil), p.messages...)
}

func TestOutboxRelay(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes committed events as envelopes", func(t *testing.T) {
		f := newFixture(t)
		pub := &fakePublisher{}
		relay := commands.NewOutboxRelay(f.store, pub, f.clock, f.cfg, f.logger)

		id, err := f.book(monday(9, 0), monday(11, 0))
		require.NoError(t, err)

		n, err := relay.Relay(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Zero(t, f.store.PendingOutbox())

		msgs := pub.sent()
		require.Len(t, msgs, 1)
		assert.Equal(t, id.String(), msgs[0].key)

		var env commands.Envelope
		require.NoError(t, json.Unmarshal(msgs[0].value, &env))
		assert.Equal(t, "1.0", env.SpecVersion)
		assert.Equal(t, shared.EventReservationCreated+".v1", env.Type)
		assert.Equal(t, "parkshare/test", env.Source)
		assert.Equal(t, id.String(), env.Subject)
		assert.Equal(t, "application/json", env.DataContentType)
		assert.Equal(t, f.eventsOfType(shared.EventReservationCreated)[0].ID.String(), env.ID)

		var data shared.ReservationEventData
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, id, data.ReservationID)
		assert.Equal(t, "20.00", data.Cost)

		n, err = relay.Relay(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Len(t, pub.sent(), 1)
	})

	t.Run("events leave in the order they were recorded", func(t *testing.T) {
		f := newFixture(t)
		pub := &fakePublisher{}
		relay := commands.NewOutboxRelay(f.store, pub, f.clock, f.cfg, f.logger)

		id, err := f.book(monday(9, 0), monday(11, 0))
		require.NoError(t, err)
		f.clock.Add(time.Minute)
		_, err = f.booking.UpdateReservationStatus(ctx, id, "cancelled", f.renter)
		require.NoError(t, err)

		_, err = relay.Relay(ctx)
		require.NoError(t, err)

		msgs := pub.sent()
		require.Len(t, msgs, 2)
		var first, second commands.Envelope
		require.NoError(t, json.Unmarshal(msgs[0].value, &first))
		require.NoError(t, json.Unmarshal(msgs[1].value, &second))
		assert.Equal(t, shared.EventReservationCreated+".v1", first.Type)
		assert.Equal(t, shared.EventReservationStatusChanged+".v1", second.Type)
	})

	t.Run("failed delivery backs off and is retried", func(t *testing.T) {
		f := newFixture(t)
		pub := &fakePublisher{}
		relay := commands.NewOutboxRelay(f.store, pub, f.clock, f.cfg, f.logger)

		_, err := f.book(monday(9, 0), monday(11, 0))
		require.NoError(t, err)

		pub.failWith(errs.New(strings.Repeat("broker down ", 100)))
		n, err := relay.Relay(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 1, f.store.PendingOutbox())
		assert.Equal(t, 1, f.store.OutboxEvents()[0].Attempts)

		pub.failWith(nil)
		n, err = relay.Relay(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "next attempt is not due yet")

		f.clock.Add(time.Second)
		n, err = relay.Relay(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Zero(t, f.store.PendingOutbox())
		assert.Equal(t, 2, f.store.OutboxEvents()[0].Attempts)
	})

	t.Run("store failures surface", func(t *testing.T) {
		f := newFixture(t)
		relay := commands.NewOutboxRelay(f.store, &fakePublisher{}, f.clock, f.cfg, f.logger)
		f.store.FailNext(errs.Mark(errs.New("connection reset"), errs.ErrPersistence))

		_, err := relay.Relay(ctx)
		assert.True(t, errs.Is(err, errs.ErrPersistence))
	})
}
