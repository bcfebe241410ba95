//go:build unit || e2e

package builder

import (
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/reservation"
	reqdto "parkshare/internal/handler/dto/request"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID           uuid.UUID
	ResourceID   uuid.UUID
	ResourceName string
	OwnerID      uuid.UUID
	RequesterID  uuid.UUID
	Start        time.Time
	End          time.Time
	CostCents    int64
	Status       string
}

// NewReservationBuilder defaults to a booked 10:00-12:00 slot on Monday 2030-01-07.
func NewReservationBuilder() *ReservationBuilder {
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:           uuid.New(),
		ResourceID:   uuid.New(),
		ResourceName: "Spot A",
		OwnerID:      uuid.New(),
		RequesterID:  uuid.New(),
		Start:        start,
		End:          start.Add(2 * time.Hour),
		CostCents:    2000,
		Status:       "booked",
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithResource(resourceID, ownerID uuid.UUID) *ReservationBuilder {
	r.ResourceID = resourceID
	r.OwnerID = ownerID
	return r
}

func (r *ReservationBuilder) WithRequester(requesterID uuid.UUID) *ReservationBuilder {
	r.RequesterID = requesterID
	return r
}

func (r *ReservationBuilder) WithSlot(start, end time.Time) *ReservationBuilder {
	r.Start = start
	r.End = end
	return r
}

func (r *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.ID, r.ResourceID, r.RequesterID,
		reservation.ReconstructTimeSlot(r.Start, r.End),
		reservation.Status(r.Status),
		money.MustFromCents(r.CostCents),
		FixedNow, FixedNow,
	)
}

func (r *ReservationBuilder) BuildInfra() pgquery.Reservation {
	return pgquery.Reservation{
		ID:          r.ID,
		ResourceID:  r.ResourceID,
		RequesterID: r.RequesterID,
		StartAt:     r.Start,
		EndAt:       r.End,
		CostCents:   r.CostCents,
		Status:      r.Status,
		CreatedAt:   FixedNow,
		UpdatedAt:   FixedNow,
	}
}

func (r *ReservationBuilder) BuildInfraView() pgquery.ReservationViewRow {
	return pgquery.ReservationViewRow{
		Reservation:     r.BuildInfra(),
		ResourceName:    r.ResourceName,
		ResourceOwnerID: r.OwnerID,
	}
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:              r.ID,
		ResourceID:      r.ResourceID,
		ResourceName:    r.ResourceName,
		ResourceOwnerID: r.OwnerID,
		RequesterID:     r.RequesterID,
		Start:           r.Start,
		End:             r.End,
		CostCents:       r.CostCents,
		Status:          r.Status,
		CreatedAt:       FixedNow,
		UpdatedAt:       FixedNow,
	}
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ResourceID: r.ResourceID.String(),
		Start:      r.Start,
		End:        r.End,
	}
}
