package pgquery

import (
	"context"
	"time"

	"parkshare/internal/infra/db"

	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, role, is_active, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const findUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) FindUserByID(ctx context.Context, db db.DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByID, id))
}

const findUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`

func (q *Queries) FindUserByEmail(ctx context.Context, db db.DBTX, email string) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByEmail, email))
}

const updateLastLogin = `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`

func (q *Queries) UpdateLastLogin(ctx context.Context, db db.DBTX, id uuid.UUID, at time.Time) (int64, error) {
	tag, err := db.Exec(ctx, updateLastLogin, id, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type CreateUserParams struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

const createUser = `
INSERT INTO users (id, email, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

func (q *Queries) CreateUser(ctx context.Context, db db.DBTX, arg CreateUserParams) error {
	_, err := db.Exec(ctx, createUser, arg.ID, arg.Email, arg.PasswordHash, arg.Role, arg.IsActive, arg.CreatedAt)
	return err
}
