package commands

import (
	"context"
	"log/slog"

	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/usecase/shared"
)

// LifecycleSweeper applies clock-driven transitions (booked→active→completed)
// as the system actor.
type LifecycleSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type lifecycleSweeperImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int
	logger    *slog.Logger
}

func NewLifecycleSweeper(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config, logger *slog.Logger) LifecycleSweeper {
	return &lifecycleSweeperImpl{
		uow:       uow,
		clock:     clk,
		batchSize: max(cfg.Worker.BatchSize, 1),
		logger:    logger,
	}
}

// Sweep processes due reservations batch by batch until a short batch. It
// returns the number of reservations advanced.
func (s *lifecycleSweeperImpl) Sweep(ctx context.Context) (int, error) {
	total := 0
	for {
		claimed, advanced, err := s.sweepBatch(ctx)
		total += advanced
		if err != nil {
			return total, err
		}
		if claimed < s.batchSize {
			if total > 0 {
				s.logger.InfoContext(ctx, "lifecycle sweep finished", "advanced", total)
			}
			return total, nil
		}
	}
}

func (s *lifecycleSweeperImpl) sweepBatch(ctx context.Context) (claimed, advanced int, err error) {
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, advanced = 0, 0
		now := s.clock.Now()

		due, err := tx.Reservations().ListDue(ctx, now, s.batchSize)
		if err != nil {
			return err
		}
		claimed = len(due)

		for _, r := range due {
			from := r.Status()
			steps := r.Advance(now)
			if len(steps) == 0 {
				continue
			}
			if err := tx.Reservations().UpdateStatus(ctx, r); err != nil {
				return err
			}
			for _, to := range steps {
				evt, err := shared.NewStatusChangedEvent(r, from, to, shared.SystemActor, now)
				if err != nil {
					return err
				}
				if err := tx.Outbox().Append(ctx, evt); err != nil {
					return err
				}
				from = to
			}
			advanced++
		}
		return nil
	})
	return claimed, advanced, err
}
