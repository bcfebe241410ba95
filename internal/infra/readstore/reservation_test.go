//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/queries"
	"parkshare/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationReadQueries struct {
	mock.Mock
}

func (m *MockReservationReadQueries) GetReservationView(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.ReservationViewRow, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(pgquery.ReservationViewRow), args.Error(1)
}

func (m *MockReservationReadQueries) ListReservationsByRequester(ctx context.Context, db db.DBTX, arg pgquery.ListReservationsParams) ([]pgquery.ReservationViewRow, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).([]pgquery.ReservationViewRow), args.Error(1)
}

func (m *MockReservationReadQueries) ListReservationsByResource(ctx context.Context, db db.DBTX, arg pgquery.ListReservationsParams) ([]pgquery.ReservationViewRow, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).([]pgquery.ReservationViewRow), args.Error(1)
}

func TestReservationReadStore_FindByID(t *testing.T) {
	rb := builder.NewReservationBuilder()

	t.Run("row carries resource name and owner", func(t *testing.T) {
		mockQueries := new(MockReservationReadQueries)
		mockQueries.On("GetReservationView", mock.Anything, mock.Anything, rb.ID).Return(rb.BuildInfraView(), nil)

		view, err := NewReservationReadStore(mockQueries, nil).FindByID(context.Background(), rb.ID)

		require.NoError(t, err)
		if diff := cmp.Diff(rb.BuildView(), view); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing row is reservation not found", func(t *testing.T) {
		mockQueries := new(MockReservationReadQueries)
		mockQueries.On("GetReservationView", mock.Anything, mock.Anything, rb.ID).Return(pgquery.ReservationViewRow{}, pgx.ErrNoRows)

		_, err := NewReservationReadStore(mockQueries, nil).FindByID(context.Background(), rb.ID)

		assert.True(t, errs.Is(err, reservation.ErrReservationNotFound))
	})
}

func TestReservationReadStore_ListByRequester(t *testing.T) {
	requesterID := uuid.New()
	first := builder.NewReservationBuilder().WithRequester(requesterID)

	t.Run("first page passes no keyset", func(t *testing.T) {
		mockQueries := new(MockReservationReadQueries)
		mockQueries.On("ListReservationsByRequester", mock.Anything, mock.Anything, pgquery.ListReservationsParams{
			OwnerKey: requesterID,
			Limit:    21,
		}).Return([]pgquery.ReservationViewRow{first.BuildInfraView()}, nil)

		views, err := NewReservationReadStore(mockQueries, nil).ListByRequester(context.Background(), requesterID, nil, 21)

		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, first.ID, views[0].ID)
		mockQueries.AssertExpectations(t)
	})

	t.Run("keyset becomes the after parameters", func(t *testing.T) {
		after := queries.Keyset{Start: time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC), ID: uuid.New()}
		mockQueries := new(MockReservationReadQueries)
		mockQueries.On("ListReservationsByRequester", mock.Anything, mock.Anything, mock.MatchedBy(func(p pgquery.ListReservationsParams) bool {
			return p.OwnerKey == requesterID && p.AfterStartAt != nil && p.AfterStartAt.Equal(after.Start) && p.AfterID == after.ID && p.Limit == 3
		})).Return([]pgquery.ReservationViewRow{}, nil)

		views, err := NewReservationReadStore(mockQueries, nil).ListByRequester(context.Background(), requesterID, &after, 3)

		require.NoError(t, err)
		assert.Empty(t, views)
		mockQueries.AssertExpectations(t)
	})

	t.Run("driver failure is a persistence error", func(t *testing.T) {
		mockQueries := new(MockReservationReadQueries)
		mockQueries.On("ListReservationsByRequester", mock.Anything, mock.Anything, mock.Anything).
			Return([]pgquery.ReservationViewRow(nil), assert.AnError)

		_, err := NewReservationReadStore(mockQueries, nil).ListByRequester(context.Background(), requesterID, nil, 5)

		assert.True(t, errs.Is(err, errs.ErrPersistence))
	})
}
