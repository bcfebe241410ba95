package queries

import (
	"context"

	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock parkshare/internal/usecase/queries UserQueries,ReservationQueries,ResourceQueries

var (
	ErrUserNotFound = errs.Mark(errs.New("user not found"), errs.ErrNotFound)
	ErrUserInactive = errs.Mark(errs.New("user inactive"), errs.ErrAuthorization)
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{
		readStore: readStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	u, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrap(ErrUserNotFound, err.Error())
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return u, nil
}

func NewAuthorizedUserView(u *user.User) *AuthorizedUserView {
	return &AuthorizedUserView{
		ID:          u.ID(),
		Email:       u.Email().Value(),
		Role:        u.Role().String(),
		IsActive:    u.IsActive(),
		LastLoginAt: u.LastLogin(),
	}
}
