//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0    = time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	slot  = reservation.ReconstructTimeSlot(t0, t0.Add(2*time.Hour))
	price = money.MustFromCents(2000)
)

func withStatus(status reservation.Status) *reservation.Reservation {
	created := t0.Add(-24 * time.Hour)
	return reservation.ReconstructReservation(uuid.New(), uuid.New(), uuid.New(), slot, status, price, created, created)
}

func TestNewReservation(t *testing.T) {
	resourceID, requesterID := uuid.New(), uuid.New()
	now := t0.Add(-time.Hour)

	r := reservation.NewReservation(resourceID, requesterID, slot, price, now)

	assert.NotEqual(t, uuid.Nil, r.ID())
	assert.Equal(t, reservation.StatusBooked, r.Status())
	assert.Equal(t, resourceID, r.ResourceID())
	assert.True(t, r.IsRequestedBy(requesterID))
	assert.False(t, r.IsRequestedBy(resourceID))
	assert.True(t, slot.Equal(r.TimeSlot()))
	assert.Equal(t, price, r.Cost())
	assert.Equal(t, now, r.CreatedAt())
}

func TestReservation_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    reservation.Status
		to      reservation.Status
		now     time.Time
		grace   time.Duration
		changed bool
		wantErr bool
	}{
		{name: "booked→active 開始時刻ちょうど", from: reservation.StatusBooked, to: reservation.StatusActive, now: t0, changed: true},
		{name: "booked→active 開始前NG", from: reservation.StatusBooked, to: reservation.StatusActive, now: t0.Add(-time.Second), wantErr: true},
		{name: "booked→cancelled 開始前", from: reservation.StatusBooked, to: reservation.StatusCancelled, now: t0.Add(-time.Minute), changed: true},
		{name: "booked→cancelled 開始時刻NG", from: reservation.StatusBooked, to: reservation.StatusCancelled, now: t0, wantErr: true},
		{name: "booked→cancelled 猶予期間内NG", from: reservation.StatusBooked, to: reservation.StatusCancelled, now: t0.Add(-10 * time.Minute), grace: 15 * time.Minute, wantErr: true},
		{name: "booked→cancelled 猶予期間前", from: reservation.StatusBooked, to: reservation.StatusCancelled, now: t0.Add(-20 * time.Minute), grace: 15 * time.Minute, changed: true},
		{name: "booked→completed NG", from: reservation.StatusBooked, to: reservation.StatusCompleted, now: t0.Add(3 * time.Hour), wantErr: true},
		{name: "booked→booked NG", from: reservation.StatusBooked, to: reservation.StatusBooked, now: t0, wantErr: true},
		{name: "active→completed 終了時刻ちょうど", from: reservation.StatusActive, to: reservation.StatusCompleted, now: slot.End(), changed: true},
		{name: "active→completed 終了前NG", from: reservation.StatusActive, to: reservation.StatusCompleted, now: slot.End().Add(-time.Second), wantErr: true},
		{name: "active→cancelled NG", from: reservation.StatusActive, to: reservation.StatusCancelled, now: t0, wantErr: true},
		{name: "active→booked NG", from: reservation.StatusActive, to: reservation.StatusBooked, now: t0, wantErr: true},
		{name: "active→active 冪等", from: reservation.StatusActive, to: reservation.StatusActive, now: t0},
		{name: "completed→cancelled NG", from: reservation.StatusCompleted, to: reservation.StatusCancelled, now: t0, wantErr: true},
		{name: "completed→active NG", from: reservation.StatusCompleted, to: reservation.StatusActive, now: t0, wantErr: true},
		{name: "completed→completed 冪等", from: reservation.StatusCompleted, to: reservation.StatusCompleted, now: t0},
		{name: "cancelled→booked NG", from: reservation.StatusCancelled, to: reservation.StatusBooked, now: t0, wantErr: true},
		{name: "cancelled→active NG", from: reservation.StatusCancelled, to: reservation.StatusActive, now: t0, wantErr: true},
		{name: "cancelled→cancelled 冪等", from: reservation.StatusCancelled, to: reservation.StatusCancelled, now: t0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withStatus(tt.from)
			before := *r

			changed, err := r.TransitionTo(tt.to, tt.now, tt.grace)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, reservation.ErrInvalidTransition))
				assert.True(t, errs.Is(err, errs.ErrStateConflict))

				var te *reservation.InvalidTransitionError
				require.True(t, errs.As(err, &te))
				assert.Equal(t, tt.from, te.From)
				assert.Equal(t, tt.to, te.To)
				assert.NotEmpty(t, te.Reason)

				assert.Equal(t, before, *r, "reservation must be unchanged on failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.to, r.Status())
			if tt.changed {
				assert.Equal(t, tt.now, r.UpdatedAt())
			} else {
				assert.Equal(t, before, *r)
			}
		})
	}

	t.Run("不明なステータスNG", func(t *testing.T) {
		r := withStatus(reservation.StatusBooked)
		_, err := r.TransitionTo(reservation.Status("paused"), t0, 0)
		require.Error(t, err)
		assert.True(t, errs.Is(err, reservation.ErrInvalidStatus))
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("二重キャンセルは同じ終端状態", func(t *testing.T) {
		r := withStatus(reservation.StatusBooked)
		now := t0.Add(-time.Hour)

		changed, err := r.TransitionTo(reservation.StatusCancelled, now, 0)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = r.TransitionTo(reservation.StatusCancelled, now.Add(time.Minute), 0)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, reservation.StatusCancelled, r.Status())
		assert.Equal(t, now, r.UpdatedAt())
	})
}

func TestReservation_Advance(t *testing.T) {
	tests := []struct {
		name  string
		from  reservation.Status
		now   time.Time
		steps []reservation.Status
		final reservation.Status
	}{
		{"開始前は何もしない", reservation.StatusBooked, t0.Add(-time.Minute), nil, reservation.StatusBooked},
		{"開始後はactive", reservation.StatusBooked, t0.Add(time.Minute), []reservation.Status{reservation.StatusActive}, reservation.StatusActive},
		{"終了後はcompletedまで進む", reservation.StatusBooked, slot.End(), []reservation.Status{reservation.StatusActive, reservation.StatusCompleted}, reservation.StatusCompleted},
		{"activeの終了後", reservation.StatusActive, slot.End().Add(time.Hour), []reservation.Status{reservation.StatusCompleted}, reservation.StatusCompleted},
		{"キャンセル済みは対象外", reservation.StatusCancelled, slot.End().Add(time.Hour), nil, reservation.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withStatus(tt.from)
			assert.Equal(t, tt.steps, r.Advance(tt.now))
			assert.Equal(t, tt.final, r.Status())
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"booked", "active", "completed", "cancelled"} {
		st, err := reservation.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, st.String())
	}

	_, err := reservation.ParseStatus("canceled")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrValidation))
}
