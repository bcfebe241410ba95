package repository

import (
	"context"
	"time"

	"parkshare/internal/domain/user"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"

	"github.com/google/uuid"
)

type UserWriteQueries interface {
	UpdateLastLogin(ctx context.Context, db db.DBTX, id uuid.UUID, at time.Time) (int64, error)
	CreateUser(ctx context.Context, db db.DBTX, arg pgquery.CreateUserParams) error
}

type UserRepository struct {
	queries UserWriteQueries
	db      db.DBTX
}

func NewUserRepository(queries UserWriteQueries, db db.DBTX) *UserRepository {
	return &UserRepository{
		queries: queries,
		db:      db,
	}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	n, err := r.queries.UpdateLastLogin(ctx, r.db, userID, at)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.queries.CreateUser(ctx, r.db, pgquery.CreateUserParams{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}
