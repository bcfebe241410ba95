//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserWriteQueries struct {
	mock.Mock
}

func (m *MockUserWriteQueries) UpdateLastLogin(ctx context.Context, db db.DBTX, id uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, db, id, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserWriteQueries) CreateUser(ctx context.Context, db db.DBTX, arg pgquery.CreateUserParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func TestUpdateLastLogin(t *testing.T) {
	testUserID := uuid.New()
	at := builder.FixedNow

	tests := []struct {
		name      string
		affected  int64
		mockError error
		wantKind  infra.RepositoryErrorKind
	}{
		{
			name:     "success",
			affected: 1,
		},
		{
			name:     "unknown user",
			affected: 0,
			wantKind: infra.KindNotFound,
		},
		{
			name:      "database error",
			mockError: assert.AnError,
			wantKind:  infra.KindDBFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockUserWriteQueries)
			mockQueries.On("UpdateLastLogin", mock.Anything, mock.Anything, testUserID, at).Return(tt.affected, tt.mockError)

			repo := NewUserRepository(mockQueries, nil)

			err := repo.UpdateLastLogin(context.Background(), testUserID, at)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
			}

			mockQueries.AssertExpectations(t)
		})
	}
}

func TestCreateUser(t *testing.T) {
	u, err := builder.NewUserBuilder().WithRole("owner").BuildDomain()
	require.NoError(t, err)

	t.Run("maps the entity to params", func(t *testing.T) {
		mockQueries := new(MockUserWriteQueries)
		mockQueries.On("CreateUser", mock.Anything, mock.Anything, pgquery.CreateUserParams{
			ID:           u.ID(),
			Email:        "renter@example.com",
			PasswordHash: "hashed_password",
			Role:         "owner",
			IsActive:     true,
			CreatedAt:    builder.FixedNow,
		}).Return(nil)

		require.NoError(t, NewUserRepository(mockQueries, nil).Create(context.Background(), u))
		mockQueries.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockQueries := new(MockUserWriteQueries)
		mockQueries.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23505"})

		err := NewUserRepository(mockQueries, nil).Create(context.Background(), u)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})
}
