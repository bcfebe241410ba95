//go:build unit || e2e

package builder

import (
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/resource"
	reqdto "parkshare/internal/handler/dto/request"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ResourceBuilder struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Address         string
	HourlyRateCents int64
	IsActive        bool
	DeletedAt       *time.Time
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:              uuid.New(),
		OwnerID:         uuid.New(),
		Name:            "Spot A",
		Address:         "1 Main St",
		HourlyRateCents: 1000,
		IsActive:        true,
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

func (r *ResourceBuilder) WithOwner(ownerID uuid.UUID) *ResourceBuilder {
	r.OwnerID = ownerID
	return r
}

func (r *ResourceBuilder) WithHourlyRateCents(cents int64) *ResourceBuilder {
	r.HourlyRateCents = cents
	return r
}

func (r *ResourceBuilder) AsInactive() *ResourceBuilder {
	r.IsActive = false
	return r
}

func (r *ResourceBuilder) AsDeleted() *ResourceBuilder {
	at := FixedNow
	r.DeletedAt = &at
	return r
}

// BuildDomain keeps the builder's ID so stores and expectations line up.
func (r *ResourceBuilder) BuildDomain() *resource.Resource {
	return resource.ReconstructResource(
		r.ID, r.OwnerID, r.Name, r.Address,
		money.MustFromCents(r.HourlyRateCents),
		r.IsActive, FixedNow, FixedNow, r.DeletedAt,
	)
}

func (r *ResourceBuilder) BuildInfra() pgquery.Resource {
	var deletedAt pgtype.Timestamptz
	if r.DeletedAt != nil {
		deletedAt = pgtype.Timestamptz{Time: *r.DeletedAt, Valid: true}
	}
	return pgquery.Resource{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		Name:            r.Name,
		Address:         r.Address,
		HourlyRateCents: r.HourlyRateCents,
		IsActive:        r.IsActive,
		CreatedAt:       FixedNow,
		UpdatedAt:       FixedNow,
		DeletedAt:       deletedAt,
	}
}

func (r *ResourceBuilder) BuildView() *queries.ResourceView {
	return &queries.ResourceView{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		Name:            r.Name,
		Address:         r.Address,
		HourlyRateCents: r.HourlyRateCents,
		IsActive:        r.IsActive,
		CreatedAt:       FixedNow,
		UpdatedAt:       FixedNow,
	}
}

func (r *ResourceBuilder) BuildCreateRequestDTO() reqdto.CreateResourceRequest {
	return reqdto.CreateResourceRequest{
		Name:       r.Name,
		Address:    r.Address,
		HourlyRate: money.MustFromCents(r.HourlyRateCents).String(),
	}
}
