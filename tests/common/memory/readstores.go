//go:build unit || e2e

package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/infra"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

// Read stores see committed state only.

func (s *Store) ResourceReadStore() queries.ResourceReadStore         { return resourceReads{s} }
func (s *Store) AvailabilityReadStore() queries.AvailabilityReadStore { return availabilityReads{s} }
func (s *Store) ReservationReadStore() queries.ReservationReadStore   { return reservationReads{s} }
func (s *Store) UserReadStore() queries.UserReadStore                 { return userReads{s} }

type resourceReads struct{ s *Store }

func (r resourceReads) FindByID(_ context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	var (
		row pgquery.Resource
		ok  bool
	)
	r.s.read(func(st *state) { row, ok = st.resources[id] })
	if !ok || row.DeletedAt.Valid {
		return nil, notFound("resource not found", resource.ErrResourceNotFound)
	}
	return resourceView(row), nil
}

func (r resourceReads) ListBookable(_ context.Context, after *queries.Keyset, limit int) ([]*queries.ResourceView, error) {
	return r.list(func(row pgquery.Resource) bool { return row.IsActive }, after, limit), nil
}

func (r resourceReads) ListByOwner(_ context.Context, ownerID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.ResourceView, error) {
	return r.list(func(row pgquery.Resource) bool { return row.OwnerID == ownerID }, after, limit), nil
}

func (r resourceReads) list(match func(pgquery.Resource) bool, after *queries.Keyset, limit int) []*queries.ResourceView {
	var rows []pgquery.Resource
	r.s.read(func(st *state) {
		for _, row := range st.resources {
			if !row.DeletedAt.Valid && match(row) && keyAfter(row.CreatedAt, row.ID, after) {
				rows = append(rows, row)
			}
		}
	})
	slices.SortFunc(rows, func(a, b pgquery.Resource) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	views := make([]*queries.ResourceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, resourceView(row))
	}
	return views
}

func resourceView(row pgquery.Resource) *queries.ResourceView {
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

type availabilityReads struct{ s *Store }

func (r availabilityReads) ListByResource(_ context.Context, resourceID uuid.UUID) ([]*queries.AvailabilityWindowView, error) {
	var rows []pgquery.AvailabilityWindow
	r.s.read(func(st *state) { rows = windowRows(st, resourceID) })

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

type reservationReads struct{ s *Store }

func (r reservationReads) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		view *queries.ReservationView
		ok   bool
	)
	r.s.read(func(st *state) {
		var row pgquery.Reservation
		if row, ok = st.reservations[id]; ok {
			view = reservationView(st, row)
		}
	})
	if !ok {
		return nil, notFound("reservation not found", reservation.ErrReservationNotFound)
	}
	return view, nil
}

func (r reservationReads) ListByRequester(_ context.Context, requesterID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.ReservationView, error) {
	return r.list(func(row pgquery.Reservation) bool { return row.RequesterID == requesterID }, after, limit), nil
}

func (r reservationReads) ListByResource(_ context.Context, resourceID uuid.UUID, after *queries.Keyset, limit int) ([]*queries.ReservationView, error) {
	return r.list(func(row pgquery.Reservation) bool { return row.ResourceID == resourceID }, after, limit), nil
}

func (r reservationReads) list(match func(pgquery.Reservation) bool, after *queries.Keyset, limit int) []*queries.ReservationView {
	var views []*queries.ReservationView
	r.s.read(func(st *state) {
		var rows []pgquery.Reservation
		for _, row := range st.reservations {
			if match(row) && keyAfter(row.StartAt, row.ID, after) {
				rows = append(rows, row)
			}
		}
		sortReservations(rows)
		if len(rows) > limit {
			rows = rows[:limit]
		}
		for _, row := range rows {
			views = append(views, reservationView(st, row))
		}
	})
	return views
}

// keyAfter mirrors the (ts, id) > (after.Start, after.ID) row comparison.
func keyAfter(ts time.Time, id uuid.UUID, after *queries.Keyset) bool {
	if after == nil {
		return true
	}
	if !ts.Equal(after.Start) {
		return ts.After(after.Start)
	}
	return strings.Compare(id.String(), after.ID.String()) > 0
}

func reservationView(st *state, row pgquery.Reservation) *queries.ReservationView {
	res := st.resources[row.ResourceID]
	return &queries.ReservationView{
		ID:              row.ID,
		ResourceID:      row.ResourceID,
		ResourceName:    res.Name,
		ResourceOwnerID: res.OwnerID,
		RequesterID:     row.RequesterID,
		Start:           row.StartAt,
		End:             row.EndAt,
		CostCents:       row.CostCents,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type userReads struct{ s *Store }

func (r userReads) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var (
		row pgquery.User
		ok  bool
	)
	r.s.read(func(st *state) { row, ok = st.users[id] })
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return userView(row), nil
}

func (r userReads) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		found pgquery.User
		ok    bool
	)
	email = strings.ToLower(email)
	r.s.read(func(st *state) {
		for _, row := range st.users {
			if row.Email == email {
				found, ok = row, true
				return
			}
		}
	})
	if !ok {
		return nil, "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return userView(found), found.PasswordHash, nil
}

func userView(row pgquery.User) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:          row.ID,
		Email:       row.Email,
		Role:        row.Role,
		IsActive:    row.IsActive,
		LastLoginAt: pgconv.TimePtrFromPgtype(row.LastLoginAt),
	}
}
