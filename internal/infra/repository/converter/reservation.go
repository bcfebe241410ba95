package converter

import (
	"parkshare/internal/domain/money"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/errs"
)

func ReservationToInfra(r *reservation.Reservation) pgquery.Reservation {
	slot := r.TimeSlot()
	return pgquery.Reservation{
		ID:          r.ID(),
		ResourceID:  r.ResourceID(),
		RequesterID: r.RequesterID(),
		StartAt:     slot.Start(),
		EndAt:       slot.End(),
		CostCents:   r.Cost().Cents(),
		Status:      r.Status().String(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func ReservationFromInfra(row pgquery.Reservation) (*reservation.Reservation, error) {
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	cost, err := money.FromCents(row.CostCents)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	return reservation.ReconstructReservation(
		row.ID, row.ResourceID, row.RequesterID,
		reservation.ReconstructTimeSlot(row.StartAt.UTC(), row.EndAt.UTC()),
		status, cost,
		row.CreatedAt.UTC(), row.UpdatedAt.UTC(),
	), nil
}

func ReservationsFromInfra(rows []pgquery.Reservation) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		r, err := ReservationFromInfra(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
