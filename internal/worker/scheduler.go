// Package worker runs the periodic background jobs (lifecycle sweep, outbox
// relay) on cron schedules.
package worker

import (
	"context"
	"log/slog"
	"time"

	"parkshare/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// RunFunc processes one batch and reports how many items it handled.
type RunFunc func(ctx context.Context) (int, error)

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			// a slow run never overlaps the next tick of the same job
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules run under spec ("@every 5s", "*/1 * * * *", ...).
func (s *Scheduler) Register(name, spec string, run RunFunc) error {
	if _, err := s.cron.AddFunc(spec, func() { s.runOnce(name, run) }); err != nil {
		return errs.Wrapf(err, "schedule %s (%q)", name, spec)
	}
	s.logger.Info("job scheduled", "job", name, "schedule", spec)
	return nil
}

func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "waiting for running jobs")
	}
}

func (s *Scheduler) runOnce(name string, run RunFunc) {
	if s.ctx.Err() != nil {
		return
	}
	started := time.Now()
	n, err := run(s.ctx)
	if err != nil {
		s.logger.Error("job failed", "job", name, "processed", n, "error", err.Error())
		return
	}
	if n > 0 {
		s.logger.Info("job finished", "job", name, "processed", n, "duration", time.Since(started))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
