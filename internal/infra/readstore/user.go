package readstore

import (
	"context"

	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadQueries interface {
	FindUserByID(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.User, error)
	FindUserByEmail(ctx context.Context, db db.DBTX, email string) (pgquery.User, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      db.DBTX
}

func NewUserReadStore(queries UserReadQueries, db db.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row, err := r.queries.FindUserByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return toAuthorizedUserView(row), nil
}

// FindByEmail also returns the stored password hash for credential checks.
func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	row, err := r.queries.FindUserByEmail(ctx, r.db, email)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return toAuthorizedUserView(row), row.PasswordHash, nil
}

func toAuthorizedUserView(row pgquery.User) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:          row.ID,
		Email:       row.Email,
		Role:        row.Role,
		IsActive:    row.IsActive,
		LastLoginAt: pgconv.TimePtrFromPgtype(row.LastLoginAt),
	}
}
