package converter

import (
	"time"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/money"
	"parkshare/internal/domain/resource"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"
)

func ResourceToInfra(r *resource.Resource) pgquery.Resource {
	return pgquery.Resource{
		ID:              r.ID(),
		OwnerID:         r.OwnerID(),
		Name:            r.Name(),
		Address:         r.Address(),
		HourlyRateCents: r.HourlyRate().Cents(),
		IsActive:        r.IsActive(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
		DeletedAt:       pgconv.TimePtrToPgtype(r.DeletedAt()),
	}
}

func ResourceFromInfra(row pgquery.Resource) (*resource.Resource, error) {
	rate, err := money.FromCents(row.HourlyRateCents)
	if err != nil {
		return nil, errs.Wrapf(err, "resource %s", row.ID)
	}
	return resource.ReconstructResource(
		row.ID, row.OwnerID, row.Name, row.Address, rate, row.IsActive,
		row.CreatedAt.UTC(), row.UpdatedAt.UTC(),
		pgconv.TimePtrFromPgtype(row.DeletedAt),
	), nil
}

func WindowToInfra(w *availability.Window) pgquery.AvailabilityWindow {
	return pgquery.AvailabilityWindow{
		ID:         w.ID(),
		ResourceID: w.ResourceID(),
		// #nosec G115 -- weekday and minutes are bounded by the domain constructors
		Weekday:     int32(w.Weekday()),
		StartMinute: int32(w.Start().Minutes()), // #nosec G115
		EndMinute:   int32(w.End().Minutes()),   // #nosec G115
		IsOpen:      w.IsOpen(),
		CreatedAt:   w.CreatedAt(),
	}
}

func WindowsFromInfra(rows []pgquery.AvailabilityWindow) []*availability.Window {
	out := make([]*availability.Window, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.ReconstructWindow(
			row.ID, row.ResourceID,
			time.Weekday(row.Weekday),
			availability.TimeOfDay(row.StartMinute),
			availability.TimeOfDay(row.EndMinute),
			row.IsOpen,
			row.CreatedAt.UTC(),
		))
	}
	return out
}
