package queries

import (
	"context"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrReservationAccess = errs.Mark(errs.New("reservation access denied"), errs.ErrAuthorization)

type ReservationQueries interface {
	GetByID(ctx context.Context, caller shared.Actor, id uuid.UUID) (*ReservationView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID, after *Cursor, limit int) (*ReservationPage, error)
	ListByResource(ctx context.Context, caller shared.Actor, resourceID uuid.UUID, after *Cursor, limit int) (*ReservationPage, error)
}

// ReservationReadStore lists are ordered by (start, id) ascending and return at
// most limit rows strictly after the keyset.
type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID, after *Keyset, limit int) ([]*ReservationView, error)
	ListByResource(ctx context.Context, resourceID uuid.UUID, after *Keyset, limit int) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
	resources ResourceReadStore
}

func NewReservationQueries(readStore ReservationReadStore, resources ResourceReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore, resources: resources}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, caller shared.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.RequesterID != caller.ID && view.ResourceOwnerID != caller.ID && caller.Role != user.RoleAdmin {
		return nil, ErrReservationAccess
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByRequester(ctx context.Context, requesterID uuid.UUID, after *Cursor, limit int) (*ReservationPage, error) {
	keyset, err := after.keyset()
	if err != nil {
		return nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := q.readStore.ListByRequester(ctx, requesterID, keyset, limit+1)
	if err != nil {
		return nil, err
	}
	return page(rows, limit), nil
}

func (q *reservationQueriesImpl) ListByResource(ctx context.Context, caller shared.Actor, resourceID uuid.UUID, after *Cursor, limit int) (*ReservationPage, error) {
	keyset, err := after.keyset()
	if err != nil {
		return nil, err
	}
	limit = ValidateLimit(limit)

	res, err := q.resources.FindByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != caller.ID && caller.Role != user.RoleAdmin {
		return nil, ErrReservationAccess
	}

	rows, err := q.readStore.ListByResource(ctx, resourceID, keyset, limit+1)
	if err != nil {
		return nil, err
	}
	return page(rows, limit), nil
}

func NewReservationView(r *reservation.Reservation) *ReservationView {
	return &ReservationView{
		ID:          r.ID(),
		ResourceID:  r.ResourceID(),
		RequesterID: r.RequesterID(),
		Start:       r.TimeSlot().Start(),
		End:         r.TimeSlot().End(),
		CostCents:   r.Cost().Cents(),
		Status:      r.Status().String(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}
