//go:build unit

package queries_test

import (
	"context"
	"testing"

	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/queries"
	"parkshare/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserReadStore struct {
	mock.Mock
}

func (m *mockUserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*queries.AuthorizedUserView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*queries.AuthorizedUserView), args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("active user", func(t *testing.T) {
		view := builder.NewUserBuilder().BuildReadModel()
		store := new(mockUserReadStore)
		store.On("FindByID", ctx, view.ID).Return(view, nil)

		got, err := queries.NewUserQueries(store).GetCurrentUser(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, got)
		store.AssertExpectations(t)
	})

	t.Run("inactive user", func(t *testing.T) {
		view := builder.NewUserBuilder().AsInactive().BuildReadModel()
		store := new(mockUserReadStore)
		store.On("FindByID", ctx, view.ID).Return(view, nil)

		_, err := queries.NewUserQueries(store).GetCurrentUser(ctx, view.ID)
		assert.True(t, errs.Is(err, queries.ErrUserInactive))
	})

	t.Run("unknown user", func(t *testing.T) {
		id := uuid.New()
		store := new(mockUserReadStore)
		store.On("FindByID", ctx, id).Return(nil, errs.Mark(errs.New("no rows"), errs.ErrNotFound))

		_, err := queries.NewUserQueries(store).GetCurrentUser(ctx, id)
		assert.True(t, errs.Is(err, queries.ErrUserNotFound))
	})

	t.Run("store failure passes through", func(t *testing.T) {
		id := uuid.New()
		store := new(mockUserReadStore)
		store.On("FindByID", ctx, id).Return(nil, errs.Mark(errs.New("timeout"), errs.ErrPersistence))

		_, err := queries.NewUserQueries(store).GetCurrentUser(ctx, id)
		assert.True(t, errs.Is(err, errs.ErrPersistence))
		assert.False(t, errs.Is(err, queries.ErrUserNotFound))
	})
}
