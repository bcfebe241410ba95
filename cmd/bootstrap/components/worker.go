package components

import (
	"context"
	"log/slog"

	"parkshare/internal/pkg/config"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewScheduler,
	),
	fx.Invoke(RegisterJobs),
)

func RegisterJobs(
	lc fx.Lifecycle,
	cfg config.Config,
	scheduler *worker.Scheduler,
	sweeper commands.LifecycleSweeper,
	relay commands.OutboxRelay,
	logger *slog.Logger,
) error {
	if !cfg.Worker.Enabled {
		logger.Info("background workers disabled")
		return nil
	}

	if err := scheduler.Register("lifecycle-sweep", cfg.Worker.SweepSchedule, sweeper.Sweep); err != nil {
		return err
	}
	if err := scheduler.Register("outbox-relay", cfg.Worker.RelaySchedule, relay.Relay); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: scheduler.Stop,
	})
	return nil
}
