package commands

import (
	"context"
	"log/slog"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/resource"
	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/patch"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrOwnerRoleRequired = errs.Mark(errs.New("owner role required"), errs.ErrAuthorization)

type CreateResourceRequest struct {
	Name       string
	Address    string
	HourlyRate string
}

// UpdateResourceRequest: nil fields are left unchanged.
type UpdateResourceRequest struct {
	HourlyRate *string
	IsActive   *bool
}

type ResourceCommands interface {
	CreateResource(ctx context.Context, req CreateResourceRequest, caller shared.Actor) (*queries.ResourceView, error)
	UpdateResource(ctx context.Context, id uuid.UUID, req UpdateResourceRequest, caller shared.Actor) (*queries.ResourceView, error)
	DeleteResource(ctx context.Context, id uuid.UUID, caller shared.Actor) error
}

type resourceCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewResourceCommands(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) ResourceCommands {
	return &resourceCommandsImpl{uow: uow, clock: clk, logger: logger}
}

func (c *resourceCommandsImpl) CreateResource(ctx context.Context, req CreateResourceRequest, caller shared.Actor) (*queries.ResourceView, error) {
	if !caller.Role.AtLeast(user.RoleOwner) {
		return nil, ErrOwnerRoleRequired
	}
	rate, err := money.Parse(req.HourlyRate)
	if err != nil {
		return nil, err
	}
	res, err := resource.NewResource(caller.ID, req.Name, req.Address, rate, c.clock.Now())
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Resources().Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "resource created", "resource_id", res.ID(), "owner_id", caller.ID)
	return queries.NewResourceView(res), nil
}

func (c *resourceCommandsImpl) UpdateResource(ctx context.Context, id uuid.UUID, req UpdateResourceRequest, caller shared.Actor) (*queries.ResourceView, error) {
	var rate *money.Money
	if req.HourlyRate != nil {
		parsed, err := money.Parse(*req.HourlyRate)
		if err != nil {
			return nil, err
		}
		rate = &parsed
	}

	var view *queries.ResourceView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := lockOwnedResource(ctx, tx, id, caller)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := res.ChangeHourlyRate(patch.Coalesce(rate, res.HourlyRate()), now); err != nil {
			return err
		}
		res.SetActive(patch.Coalesce(req.IsActive, res.IsActive()), now)

		if err := tx.Resources().Update(ctx, res); err != nil {
			return err
		}
		view = queries.NewResourceView(res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (c *resourceCommandsImpl) DeleteResource(ctx context.Context, id uuid.UUID, caller shared.Actor) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The row lock keeps admissions out while the check and delete run.
		res, err := lockOwnedResource(ctx, tx, id, caller)
		if err != nil {
			return err
		}
		busy, err := tx.Reservations().HasNonTerminal(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return resource.ErrHasActiveReservations
		}
		if err := res.MarkDeleted(c.clock.Now()); err != nil {
			return err
		}
		return tx.Resources().Update(ctx, res)
	})
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "resource deleted", "resource_id", id, "owner_id", caller.ID)
	return nil
}
