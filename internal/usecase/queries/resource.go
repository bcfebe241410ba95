package queries

import (
	"context"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/resource"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	ListAvailability(ctx context.Context, resourceID uuid.UUID) ([]*AvailabilityWindowView, error)
	List(ctx context.Context, after *Cursor, limit int) (*ResourcePage, error)
	ListByOwner(ctx context.Context, caller shared.Actor, after *Cursor, limit int) (*ResourcePage, error)
}

// ResourceReadStore never returns soft-deleted resources. Lists are ordered by
// (created_at, id) and return at most limit rows strictly after the keyset.
type ResourceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	// ListBookable skips inactive resources.
	ListBookable(ctx context.Context, after *Keyset, limit int) ([]*ResourceView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, after *Keyset, limit int) ([]*ResourceView, error)
}

// AvailabilityReadStore orders windows by weekday, start, end, id.
type AvailabilityReadStore interface {
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*AvailabilityWindowView, error)
}

type resourceQueriesImpl struct {
	resources    ResourceReadStore
	availability AvailabilityReadStore
}

func NewResourceQueries(resources ResourceReadStore, availability AvailabilityReadStore) ResourceQueries {
	return &resourceQueriesImpl{resources: resources, availability: availability}
}

func (q *resourceQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error) {
	return q.resources.FindByID(ctx, id)
}

func (q *resourceQueriesImpl) ListAvailability(ctx context.Context, resourceID uuid.UUID) ([]*AvailabilityWindowView, error) {
	if _, err := q.resources.FindByID(ctx, resourceID); err != nil {
		return nil, err
	}
	return q.availability.ListByResource(ctx, resourceID)
}

func (q *resourceQueriesImpl) List(ctx context.Context, after *Cursor, limit int) (*ResourcePage, error) {
	keyset, err := after.keyset()
	if err != nil {
		return nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := q.resources.ListBookable(ctx, keyset, limit+1)
	if err != nil {
		return nil, err
	}
	return resourcePage(rows, limit), nil
}

func (q *resourceQueriesImpl) ListByOwner(ctx context.Context, caller shared.Actor, after *Cursor, limit int) (*ResourcePage, error) {
	keyset, err := after.keyset()
	if err != nil {
		return nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := q.resources.ListByOwner(ctx, caller.ID, keyset, limit+1)
	if err != nil {
		return nil, err
	}
	return resourcePage(rows, limit), nil
}

func NewResourceView(r *resource.Resource) *ResourceView {
	return &ResourceView{
		ID:              r.ID(),
		OwnerID:         r.OwnerID(),
		Name:            r.Name(),
		Address:         r.Address(),
		HourlyRateCents: r.HourlyRate().Cents(),
		IsActive:        r.IsActive(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
}

func NewAvailabilityWindowView(w *availability.Window) *AvailabilityWindowView {
	return &AvailabilityWindowView{
		ID:         w.ID(),
		ResourceID: w.ResourceID(),
		Weekday:    int(w.Weekday()),
		Start:      w.Start().String(),
		End:        w.End().String(),
		Open:       w.IsOpen(),
		CreatedAt:  w.CreatedAt(),
	}
}
