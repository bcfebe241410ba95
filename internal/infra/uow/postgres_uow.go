package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"parkshare/internal/infra/db"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/repository"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries  = 3
	backoffBase = 50 * time.Millisecond
)

var (
	errTransactionBegin   = errs.Mark(errs.New("failed to begin transaction"), errs.ErrPersistence)
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.Mark(errs.New("transaction failed after max retries"), errs.ErrConcurrencyConflict)
)

type PostgresUoW struct {
	pool        *pgxpool.Pool
	q           *pgquery.Queries
	lockTimeout time.Duration
	logger      *slog.Logger
}

func NewPostgresUoW(pool *pgxpool.Pool, q *pgquery.Queries, cfg config.Config, logger *slog.Logger) shared.UnitOfWork {
	return &PostgresUoW{
		pool:        pool,
		q:           q,
		lockTimeout: cfg.DB.LockTimeout,
		logger:      logger,
	}
}

// ReadCommitted is enough: admission serializes on the resource row lock and the
// exclusion constraint, not on the isolation level.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(errs.Wrap(err, "begin"), errTransactionBegin)
		}

		err = u.setLockTimeout(ctx, pgxTx)
		if err == nil {
			err = fn(ctx, &pgTx{dbtx: pgxTx, q: u.q})
		}
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				u.logger.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) {
			return err
		}
		if attempt == maxRetries {
			u.logger.Warn("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, backoffBase)

		u.logger.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return errs.Mark(ctx.Err(), errs.ErrConcurrencyConflict)
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

// setLockTimeout bounds how long row locks are waited for inside this transaction.
func (u *PostgresUoW) setLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if u.lockTimeout <= 0 {
		return nil
	}
	ms := strconv.FormatInt(u.lockTimeout.Milliseconds(), 10) + "ms"
	if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", ms); err != nil {
		return errs.Mark(errs.Wrap(err, "set lock_timeout"), errs.ErrPersistence)
	}
	return nil
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

// Only serialization failures and deadlocks are replayed here. Lock timeouts
// surface to the caller, which owns the admission retry budget.
func isRetryableError(err error) bool {
	switch pgconv.PgCode(err) {
	case pgconv.CodeSerializationFailure, pgconv.CodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX
	q    *pgquery.Queries

	// Lazy-initialized repositories
	resourceRepo     shared.ResourceRepository
	availabilityRepo shared.AvailabilityRepository
	reservationRepo  shared.ReservationRepository
	outboxRepo       shared.OutboxRepository
	userRepo         shared.UserRepository
}

func (t *pgTx) Resources() shared.ResourceRepository {
	if t.resourceRepo == nil {
		t.resourceRepo = repository.NewResourceRepository(t.q, t.dbtx)
	}
	return t.resourceRepo
}

func (t *pgTx) Availability() shared.AvailabilityRepository {
	if t.availabilityRepo == nil {
		t.availabilityRepo = repository.NewAvailabilityRepository(t.q, t.dbtx)
	}
	return t.availabilityRepo
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.q, t.dbtx)
	}
	return t.reservationRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository(t.q, t.dbtx)
	}
	return t.outboxRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.q, t.dbtx)
	}
	return t.userRepo
}
