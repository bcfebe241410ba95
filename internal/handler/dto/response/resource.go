package response

import (
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceResponse struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	HourlyRate string    `json:"hourly_rate"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AvailabilityWindowResponse struct {
	ID         uuid.UUID `json:"id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Weekday    int       `json:"weekday"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Open       bool      `json:"open"`
}

func FromResourceView(v *queries.ResourceView) *ResourceResponse {
	var out ResourceResponse
	_ = copier.Copy(&out, v)
	out.HourlyRate = centsString(v.HourlyRateCents)
	return &out
}

type ResourceListResponse struct {
	Items      []*ResourceResponse `json:"items"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

func FromResourcePage(p *queries.ResourcePage) *ResourceListResponse {
	out := &ResourceListResponse{Items: make([]*ResourceResponse, 0, len(p.Items))}
	for _, v := range p.Items {
		out.Items = append(out.Items, FromResourceView(v))
	}
	if p.Next != nil {
		out.NextCursor = p.Next.After
	}
	return out
}

func FromAvailabilityWindowViews(vs []*queries.AvailabilityWindowView) []AvailabilityWindowResponse {
	out := make([]AvailabilityWindowResponse, 0, len(vs))
	_ = copier.Copy(&out, vs)
	return out
}

func FromAvailabilityWindowView(v *queries.AvailabilityWindowView) *AvailabilityWindowResponse {
	var out AvailabilityWindowResponse
	_ = copier.Copy(&out, v)
	return &out
}

func centsString(cents int64) string {
	m, err := money.FromCents(cents)
	if err != nil {
		return "0.00"
	}
	return m.String()
}
