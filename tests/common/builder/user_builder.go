//go:build unit || e2e

package builder

import (
	"time"

	"parkshare/internal/domain/user"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// FixedNow anchors builder timestamps so expectations can be compared exactly.
var FixedNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

type UserBuilder struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLoginAt  *time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:           uuid.New(),
		Email:        "renter@example.com",
		PasswordHash: "hashed_password",
		Role:         "renter",
		IsActive:     true,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	built := user.NewUser(email, u.PasswordHash, role, FixedNow)
	if !u.IsActive {
		built.Deactivate(FixedNow)
	}
	return built, nil
}

func (u *UserBuilder) BuildInfra() pgquery.User {
	var lastLogin pgtype.Timestamptz
	if u.LastLoginAt != nil {
		lastLogin = pgtype.Timestamptz{Time: *u.LastLoginAt, Valid: true}
	}

	return pgquery.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		LastLoginAt:  lastLogin,
		CreatedAt:    FixedNow,
		UpdatedAt:    FixedNow,
	}
}

func (u *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

// Fluent builder methods
func (u *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	u.ID = id
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) WithLastLogin(at time.Time) *UserBuilder {
	u.LastLoginAt = &at
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
