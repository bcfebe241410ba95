//go:build unit

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"parkshare/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler(t *testing.T) {
	t.Run("runs registered jobs on their schedule", func(t *testing.T) {
		s := worker.NewScheduler(discardLogger())
		var runs atomic.Int32
		require.NoError(t, s.Register("sweep", "@every 1s", func(context.Context) (int, error) {
			runs.Add(1)
			return 1, nil
		}))
		assert.Equal(t, 1, s.Jobs())

		s.Start()
		defer func() { _ = s.Stop(context.Background()) }()

		assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("a failing or panicking job keeps the scheduler alive", func(t *testing.T) {
		s := worker.NewScheduler(discardLogger())
		var runs atomic.Int32
		require.NoError(t, s.Register("relay", "@every 1s", func(context.Context) (int, error) {
			if runs.Add(1) == 1 {
				panic("broker exploded")
			}
			return 0, errors.New("broker down")
		}))

		s.Start()
		defer func() { _ = s.Stop(context.Background()) }()

		assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)
	})

	t.Run("stop cancels the job context and waits", func(t *testing.T) {
		s := worker.NewScheduler(discardLogger())
		started := make(chan struct{})
		var cancelled atomic.Bool
		require.NoError(t, s.Register("slow", "@every 1s", func(ctx context.Context) (int, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-ctx.Done()
			cancelled.Store(true)
			return 0, ctx.Err()
		}))

		s.Start()
		select {
		case <-started:
		case <-time.After(3 * time.Second):
			t.Fatal("job never started")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
		assert.True(t, cancelled.Load())
	})

	t.Run("invalid schedule is rejected", func(t *testing.T) {
		s := worker.NewScheduler(discardLogger())
		err := s.Register("broken", "every now and then", func(context.Context) (int, error) { return 0, nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
		assert.Equal(t, 0, s.Jobs())
	})
}
