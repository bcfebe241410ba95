//go:build unit || e2e

// Package memory is an in-process implementation of the unit of work and read
// stores. Transactions run one at a time against a private copy of the state,
// which replaces the committed state only when fn succeeds.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"parkshare/internal/domain/resource"
	"parkshare/internal/domain/user"
	"parkshare/internal/infra/pgquery"
	"parkshare/internal/infra/repository/converter"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

type outboxRow struct {
	pgquery.OutboxEvent
	NextAttemptAt time.Time
	SentAt        *time.Time
	LastError     string
}

type state struct {
	users        map[uuid.UUID]pgquery.User
	resources    map[uuid.UUID]pgquery.Resource
	windows      map[uuid.UUID]pgquery.AvailabilityWindow
	reservations map[uuid.UUID]pgquery.Reservation
	outbox       []outboxRow
}

func newState() *state {
	return &state{
		users:        make(map[uuid.UUID]pgquery.User),
		resources:    make(map[uuid.UUID]pgquery.Resource),
		windows:      make(map[uuid.UUID]pgquery.AvailabilityWindow),
		reservations: make(map[uuid.UUID]pgquery.Reservation),
	}
}

func (s *state) clone() *state {
	return &state{
		users:        maps.Clone(s.users),
		resources:    maps.Clone(s.resources),
		windows:      maps.Clone(s.windows),
		reservations: maps.Clone(s.reservations),
		outbox:       append([]outboxRow(nil), s.outbox...),
	}
}

type Store struct {
	txMu sync.Mutex

	mu     sync.RWMutex
	st     *state
	faults []error
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.faults) > 0 {
		fault := s.faults[0]
		s.faults = s.faults[1:]
		s.mu.Unlock()
		return fault
	}
	work := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// FailNext makes the next len(errs) transactions fail with the given errors
// before running.
func (s *Store) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, errs...)
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// SeedUser stores u with the given password hash outside any transaction.
func (s *Store) SeedUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID()] = pgquery.User{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func (s *Store) SeedResource(r *resource.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.resources[r.ID()] = converter.ResourceToInfra(r)
}

// ReservationRows returns a copy of every stored reservation row.
func (s *Store) ReservationRows() []pgquery.Reservation {
	var rows []pgquery.Reservation
	s.read(func(st *state) {
		for _, r := range st.reservations {
			rows = append(rows, r)
		}
	})
	return rows
}

// OutboxEvents returns stored events in append order.
func (s *Store) OutboxEvents() []shared.OutboxRecord {
	var out []shared.OutboxRecord
	s.read(func(st *state) {
		for _, row := range st.outbox {
			out = append(out, toOutboxRecord(row))
		}
	})
	return out
}

// PendingOutbox counts events not yet marked sent.
func (s *Store) PendingOutbox() int {
	n := 0
	s.read(func(st *state) {
		for _, row := range st.outbox {
			if row.SentAt == nil {
				n++
			}
		}
	})
	return n
}

func (s *Store) UserRow(id uuid.UUID) (pgquery.User, bool) {
	var (
		row pgquery.User
		ok  bool
	)
	s.read(func(st *state) { row, ok = st.users[id] })
	return row, ok
}

func (s *Store) ResourceRow(id uuid.UUID) (pgquery.Resource, bool) {
	var (
		row pgquery.Resource
		ok  bool
	)
	s.read(func(st *state) { row, ok = st.resources[id] })
	return row, ok
}

func toOutboxRecord(row outboxRow) shared.OutboxRecord {
	return shared.OutboxRecord{
		Event: shared.Event{
			ID:          row.ID,
			AggregateID: row.AggregateID,
			Type:        row.EventType,
			Payload:     row.Payload,
			OccurredAt:  row.OccurredAt,
		},
		Attempts: int(row.Attempts),
	}
}
