package readstore

import (
	"context"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/resource"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type ResourceReadQueries interface {
	GetLiveResource(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.Resource, error)
	ListBookableResources(ctx context.Context, db db.DBTX, arg pgquery.ListResourcesParams) ([]pgquery.Resource, error)
	ListResourcesByOwner(ctx context.Context, db db.DBTX, ownerID uuid.UUID, arg pgquery.ListResourcesParams) ([]pgquery.Resource, error)
	ListWindowsByResource(ctx context.Context, db db.DBTX, resourceID uuid.UUID) ([]pgquery.AvailabilityWindow, error)
}

type ResourceReadStore struct {
	queries ResourceReadQueries
	db      db.DBTX
}

func NewResourceReadStore(queries ResourceReadQueries, db db.DBTX) *ResourceReadStore {
	return &ResourceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	row, err := r.queries.GetLiveResource(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr("resource not found", err, infra.KindNotFound), resource.ErrResourceNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource", err)
	}

	return toResourceView(row), nil
}

func (r *ResourceReadStore) ListBookable(ctx context.Context, after *queries.Keyset, limit int) ([]*queries.ResourceView, error) {
	rows, err := r.queries.ListBookableResources(ctx, r.db, resourceListParams(after, limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list resources", err)
	}
	return toResourceViews(rows), nil
}

func (r *ResourceReadStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.ResourceView, error) {
	rows, err := r.queries.ListResourcesByOwner(ctx, r.db, ownerID, resourceListParams(after, limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list resources by owner", err)
	}
	return toResourceViews(rows), nil
}

func resourceListParams(after *queries.Keyset, limit int) pgquery.ListResourcesParams {
	// #nosec G115 -- limit is clamped to MaxListLimit+1 by the caller
	params := pgquery.ListResourcesParams{Limit: int32(limit)}
	if after != nil {
		createdAt := after.Start
		params.AfterCreatedAt = &createdAt
		params.AfterID = after.ID
	}
	return params
}

func toResourceViews(rows []pgquery.Resource) []*queries.ResourceView {
	views := make([]*queries.ResourceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toResourceView(row))
	}
	return views
}

func toResourceView(row pgquery.Resource) *queries.ResourceView {
	return &queries.ResourceView{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		Name:            row.Name,
		Address:         row.Address,
		HourlyRateCents: row.HourlyRateCents,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type AvailabilityReadStore struct {
	queries ResourceReadQueries
	db      db.DBTX
}

func NewAvailabilityReadStore(queries ResourceReadQueries, db db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *AvailabilityReadStore) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*queries.AvailabilityWindowView, error) {
	rows, err := r.queries.ListWindowsByResource(ctx, r.db, resourceID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list availability windows", err)
	}

	views := make([]*queries.AvailabilityWindowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, &queries.AvailabilityWindowView{
			ID:         row.ID,
			ResourceID: row.ResourceID,
			Weekday:    int(row.Weekday),
			Start:      availability.TimeOfDay(row.StartMinute).String(),
			End:        availability.TimeOfDay(row.EndMinute).String(),
			Open:       row.IsOpen,
			CreatedAt:  row.CreatedAt,
		})
	}
	return views, nil
}
