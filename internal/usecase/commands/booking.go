package commands

import (
	"context"
	"log/slog"
	"time"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/reservation"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/keylock"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../../tests/mock/commands/commands.go -package=commandsmock parkshare/internal/usecase/commands AuthCommands,BookingCommands,ResourceCommands,AvailabilityCommands,LifecycleSweeper,OutboxRelay

var ErrStatusChangeForbidden = errs.Mark(errs.New("caller may not change this reservation's status"), errs.ErrAuthorization)

// Values of BookingConfig.ForcedTransitions
const (
	ForcedByOwner  = "owner"
	ForcedBySystem = "system"
)

type CreateReservationRequest struct {
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
}

type BookingCommands interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest, requester shared.Actor) (*queries.ReservationView, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, target string, caller shared.Actor) (*queries.ReservationView, error)
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	resources queries.ResourceReadStore
	locks     *keylock.Locker
	pricing   reservation.PriceCalculator
	clock     clock.Clock
	cfg       config.BookingConfig
	logger    *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	resources queries.ResourceReadStore,
	locks *keylock.Locker,
	pricing reservation.PriceCalculator,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		resources: resources,
		locks:     locks,
		pricing:   pricing,
		clock:     clk,
		cfg:       cfg.Booking,
		logger:    logger,
	}
}

func (c *bookingCommandsImpl) CreateReservation(ctx context.Context, req CreateReservationRequest, requester shared.Actor) (*queries.ReservationView, error) {
	slot, err := reservation.NewTimeSlot(req.Start, req.End, c.clock.Now())
	if err != nil {
		return nil, err
	}

	// Cheap rejection before queueing on the guard; re-checked under the row lock.
	res, err := c.resources.FindByID(ctx, req.ResourceID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Wrap(reservation.ErrResourceUnavailable, "resource not found")
		}
		return nil, err
	}
	if !res.IsActive {
		return nil, errs.Wrap(reservation.ErrResourceUnavailable, "resource is inactive")
	}

	maxAttempts := max(c.cfg.MaxAttempts, 1)
	for attempt := 1; ; attempt++ {
		created, err := c.admit(ctx, req.ResourceID, requester, slot)
		if err == nil {
			c.logger.InfoContext(ctx, "reservation booked",
				"reservation_id", created.ID(),
				"resource_id", req.ResourceID,
				"attempt", attempt)
			return queries.NewReservationView(created), nil
		}
		if !errs.Is(err, errs.ErrConcurrencyConflict) {
			return nil, err
		}
		if attempt >= maxAttempts {
			c.logger.WarnContext(ctx, "admission lost every race, reporting conflict",
				"resource_id", req.ResourceID,
				"attempts", attempt,
				"error", err.Error())
			return nil, errs.Wrapf(reservation.ErrTimeConflict, "gave up after %d attempts", attempt)
		}

		wait := c.cfg.RetryBackoff * time.Duration(attempt)
		c.logger.WarnContext(ctx, "retrying admission",
			"resource_id", req.ResourceID,
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return nil, errs.Wrap(ctx.Err(), "admission aborted")
		case <-time.After(wait):
		}
	}
}

// admit runs one pass of the admission protocol: guard, lock, decide, write.
func (c *bookingCommandsImpl) admit(ctx context.Context, resourceID uuid.UUID, requester shared.Actor, slot reservation.TimeSlot) (*reservation.Reservation, error) {
	lockCtx, cancel := context.WithTimeout(ctx, c.cfg.LockWait)
	release, err := c.locks.Acquire(lockCtx, resourceID)
	cancel()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrConcurrencyConflict)
	}
	defer release()

	var created *reservation.Reservation
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Resources().LockByID(ctx, resourceID)
		if err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return reservation.ErrResourceUnavailable
			}
			return err
		}
		if !res.IsBookable() {
			return reservation.ErrResourceUnavailable
		}

		windows, err := tx.Availability().ListByResource(ctx, resourceID)
		if err != nil {
			return err
		}
		existing, err := tx.Reservations().ListBlocking(ctx, resourceID, slot)
		if err != nil {
			return err
		}
		if err := reservation.Admit(availability.NewCatalog(windows), slot, existing); err != nil {
			return err
		}

		now := c.clock.Now()
		r := reservation.NewReservation(resourceID, requester.ID, slot, c.pricing.Price(res.HourlyRate(), slot), now)
		if err := tx.Reservations().Create(ctx, r); err != nil {
			return err
		}
		evt, err := shared.NewReservationCreatedEvent(r, requester, now)
		if err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, evt); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *bookingCommandsImpl) UpdateReservationStatus(ctx context.Context, id uuid.UUID, target string, caller shared.Actor) (*queries.ReservationView, error) {
	status, err := reservation.ParseStatus(target)
	if err != nil {
		return nil, err
	}

	var view *queries.ReservationView
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		res, err := tx.Resources().FindByID(ctx, r.ResourceID())
		if err != nil {
			return err
		}
		if err := c.authorizeStatusChange(caller, r, res.OwnerID(), status); err != nil {
			return err
		}

		from := r.Status()
		now := c.clock.Now()
		changed, err := r.TransitionTo(status, now, c.cfg.CancelGrace)
		if err != nil {
			return err
		}
		view = queries.NewReservationView(r)
		view.ResourceName = res.Name()
		view.ResourceOwnerID = res.OwnerID()
		if !changed {
			return nil
		}

		if err := tx.Reservations().UpdateStatus(ctx, r); err != nil {
			return err
		}
		evt, err := shared.NewStatusChangedEvent(r, from, status, caller, now)
		if err != nil {
			return err
		}
		return tx.Outbox().Append(ctx, evt)
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (c *bookingCommandsImpl) authorizeStatusChange(caller shared.Actor, r *reservation.Reservation, ownerID uuid.UUID, target reservation.Status) error {
	isOwner := caller.ID == ownerID

	switch target {
	case reservation.StatusCancelled:
		if r.IsRequestedBy(caller.ID) || (c.cfg.OwnerMayCancel && isOwner) {
			return nil
		}
	case reservation.StatusActive, reservation.StatusCompleted:
		if caller.IsSystem() || (c.cfg.ForcedTransitions != ForcedBySystem && isOwner) {
			return nil
		}
	default:
		// any party to the reservation gets the lifecycle's answer rather than a 403
		if r.IsRequestedBy(caller.ID) || isOwner || caller.IsSystem() {
			return nil
		}
	}
	return ErrStatusChangeForbidden
}
