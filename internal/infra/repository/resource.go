package repository

import (
	"context"

	"parkshare/internal/domain/resource"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/repository/converter"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ResourceWriteQueries interface {
	CreateResource(ctx context.Context, db db.DBTX, arg pgquery.Resource) error
	GetResource(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.Resource, error)
	GetResourceForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (pgquery.Resource, error)
	UpdateResource(ctx context.Context, db db.DBTX, arg pgquery.Resource) (int64, error)
}

type ResourceRepository struct {
	queries ResourceWriteQueries
	db      db.DBTX
}

func NewResourceRepository(queries ResourceWriteQueries, db db.DBTX) *ResourceRepository {
	return &ResourceRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	if err := r.queries.CreateResource(ctx, r.db, converter.ResourceToInfra(res)); err != nil {
		return infra.WrapRepoErr("failed to create resource", err)
	}
	return nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return r.find(ctx, id, r.queries.GetResource)
}

func (r *ResourceRepository) LockByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return r.find(ctx, id, r.queries.GetResourceForUpdate)
}

func (r *ResourceRepository) find(
	ctx context.Context,
	id uuid.UUID,
	get func(context.Context, db.DBTX, uuid.UUID) (pgquery.Resource, error),
) (*resource.Resource, error) {
	row, err := get(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr("resource not found", err, infra.KindNotFound), resource.ErrResourceNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load resource", err)
	}
	res, err := converter.ResourceFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt resource row", err, infra.KindDBFailure)
	}
	return res, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	n, err := r.queries.UpdateResource(ctx, r.db, converter.ResourceToInfra(res))
	if err != nil {
		return infra.WrapRepoErr("failed to update resource", err)
	}
	if n == 0 {
		return errs.Mark(infra.WrapRepoErr("resource not found", nil, infra.KindNotFound), resource.ErrResourceNotFound)
	}
	return nil
}
