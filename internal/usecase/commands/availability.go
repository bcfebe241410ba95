package commands

import (
	"context"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/resource"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

type AddWindowRequest struct {
	Weekday int
	Start   string
	End     string
	Open    bool
}

// AvailabilityCommands changes only future admission decisions; admitted
// reservations are never revisited.
type AvailabilityCommands interface {
	AddWindow(ctx context.Context, resourceID uuid.UUID, req AddWindowRequest, caller shared.Actor) (*queries.AvailabilityWindowView, error)
	RemoveWindow(ctx context.Context, resourceID, windowID uuid.UUID, caller shared.Actor) error
}

type availabilityCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewAvailabilityCommands(uow shared.UnitOfWork, clk clock.Clock) AvailabilityCommands {
	return &availabilityCommandsImpl{uow: uow, clock: clk}
}

func (c *availabilityCommandsImpl) AddWindow(ctx context.Context, resourceID uuid.UUID, req AddWindowRequest, caller shared.Actor) (*queries.AvailabilityWindowView, error) {
	start, err := availability.ParseTimeOfDay(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := availability.ParseTimeOfDay(req.End)
	if err != nil {
		return nil, err
	}
	w, err := availability.NewWindow(resourceID, req.Weekday, start, end, req.Open, c.clock.Now())
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Row lock orders this change against in-flight admissions on the resource.
		if _, err := lockOwnedResource(ctx, tx, resourceID, caller); err != nil {
			return err
		}
		return tx.Availability().Add(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return queries.NewAvailabilityWindowView(w), nil
}

func (c *availabilityCommandsImpl) RemoveWindow(ctx context.Context, resourceID, windowID uuid.UUID, caller shared.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := lockOwnedResource(ctx, tx, resourceID, caller); err != nil {
			return err
		}
		return tx.Availability().Remove(ctx, resourceID, windowID)
	})
}

// lockOwnedResource loads a live resource under its row lock and checks the caller owns it.
func lockOwnedResource(ctx context.Context, tx shared.Tx, resourceID uuid.UUID, caller shared.Actor) (*resource.Resource, error) {
	res, err := tx.Resources().LockByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.DeletedAt() != nil {
		return nil, errs.Wrap(resource.ErrResourceNotFound, resourceID.String())
	}
	if !res.IsOwnedBy(caller.ID) {
		return nil, resource.ErrNotOwner
	}
	return res, nil
}
