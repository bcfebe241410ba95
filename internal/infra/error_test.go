//go:build unit

package infra_test

import (
	"testing"

	"parkshare/internal/infra"
	"parkshare/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     []infra.RepositoryErrorKind
		wantKind infra.RepositoryErrorKind
		category error
	}{
		{"no rows", pgx.ErrNoRows, nil, infra.KindNotFound, errs.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, nil, infra.KindDuplicateKey, errs.ErrStateConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, nil, infra.KindForeignKeyViolated, errs.ErrNotFound},
		{"exclusion", &pgconn.PgError{Code: "23P01"}, nil, infra.KindExclusionViolated, errs.ErrAdmissionRejected},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, nil, infra.KindLockContention, errs.ErrConcurrencyConflict},
		{"serialization", &pgconn.PgError{Code: "40001"}, nil, infra.KindLockContention, errs.ErrConcurrencyConflict},
		{"other pg error", &pgconn.PgError{Code: "XX000"}, nil, infra.KindDBFailure, errs.ErrPersistence},
		{"explicit kind wins", errs.New("boom"), []infra.RepositoryErrorKind{infra.KindNotFound}, infra.KindNotFound, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := infra.WrapRepoErr("op", tt.err, tt.kind...)

			assert.True(t, infra.IsKind(err, tt.wantKind))
			assert.True(t, errs.Is(err, tt.category))
			assert.Contains(t, err.Error(), "op")
		})
	}

	t.Run("pg error stays reachable for retry decisions", func(t *testing.T) {
		err := infra.WrapRepoErr("op", &pgconn.PgError{Code: "40P01"})
		var pgErr *pgconn.PgError
		assert.True(t, errs.As(err, &pgErr))
		assert.Equal(t, "40P01", pgErr.Code)
	})
}
