package pgquery

import (
	"context"
	"time"

	"parkshare/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resourceColumns = `id, owner_id, name, address, hourly_rate_cents, is_active, created_at, updated_at, deleted_at`

func scanResource(row interface{ Scan(...any) error }) (Resource, error) {
	var r Resource
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Address, &r.HourlyRateCents, &r.IsActive, &r.CreatedAt, &r.UpdatedAt, &r.DeletedAt)
	return r, err
}

const createResource = `
INSERT INTO resources (id, owner_id, name, address, hourly_rate_cents, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (q *Queries) CreateResource(ctx context.Context, db db.DBTX, arg Resource) error {
	_, err := db.Exec(ctx, createResource,
		arg.ID, arg.OwnerID, arg.Name, arg.Address, arg.HourlyRateCents, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getResource = `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

// GetResource includes soft-deleted rows.
func (q *Queries) GetResource(ctx context.Context, db db.DBTX, id uuid.UUID) (Resource, error) {
	return scanResource(db.QueryRow(ctx, getResource, id))
}

const getResourceForUpdate = getResource + ` FOR UPDATE`

func (q *Queries) GetResourceForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (Resource, error) {
	return scanResource(db.QueryRow(ctx, getResourceForUpdate, id))
}

const getLiveResource = `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) GetLiveResource(ctx context.Context, db db.DBTX, id uuid.UUID) (Resource, error) {
	return scanResource(db.QueryRow(ctx, getLiveResource, id))
}

const updateResource = `
UPDATE resources
SET hourly_rate_cents = $2, is_active = $3, updated_at = $4, deleted_at = $5
WHERE id = $1`

func (q *Queries) UpdateResource(ctx context.Context, db db.DBTX, arg Resource) (int64, error) {
	tag, err := db.Exec(ctx, updateResource, arg.ID, arg.HourlyRateCents, arg.IsActive, arg.UpdatedAt, arg.DeletedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type ListResourcesParams struct {
	AfterCreatedAt *time.Time
	AfterID        uuid.UUID
	Limit          int32
}

// Keyset on (created_at, id); a NULL after-created-at means the first page.
const listBookableResources = `SELECT ` + resourceColumns + ` FROM resources
WHERE deleted_at IS NULL
  AND is_active
  AND ($1::timestamptz IS NULL OR (created_at, id) > ($1::timestamptz, $2::uuid))
ORDER BY created_at, id
LIMIT $3`

func (q *Queries) ListBookableResources(ctx context.Context, db db.DBTX, arg ListResourcesParams) ([]Resource, error) {
	rows, err := db.Query(ctx, listBookableResources, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Resource, error) { return scanResource(row) })
}

const listResourcesByOwner = `SELECT ` + resourceColumns + ` FROM resources
WHERE owner_id = $1
  AND deleted_at IS NULL
  AND ($2::timestamptz IS NULL OR (created_at, id) > ($2::timestamptz, $3::uuid))
ORDER BY created_at, id
LIMIT $4`

// ListResourcesByOwner includes inactive resources.
func (q *Queries) ListResourcesByOwner(ctx context.Context, db db.DBTX, ownerID uuid.UUID, arg ListResourcesParams) ([]Resource, error) {
	rows, err := db.Query(ctx, listResourcesByOwner, ownerID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Resource, error) { return scanResource(row) })
}
