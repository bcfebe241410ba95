package response

import (
	"time"

	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name,omitempty"`
	RequesterID  uuid.UUID `json:"requester_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Cost         string    `json:"cost"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var out ReservationResponse
	_ = copier.Copy(&out, v)
	out.Cost = centsString(v.CostCents)
	return &out
}

func FromReservationPage(p *queries.ReservationPage) *ReservationListResponse {
	out := &ReservationListResponse{Items: make([]*ReservationResponse, 0, len(p.Items))}
	for _, v := range p.Items {
		out.Items = append(out.Items, FromReservationView(v))
	}
	if p.Next != nil {
		out.NextCursor = p.Next.After
	}
	return out
}
