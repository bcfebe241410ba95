// Package keylock serializes work per key (one holder per key at a time) while
// leaving distinct keys fully parallel. Waiting is bounded by the caller's context.
package keylock

import (
	"context"
	"sync"

	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

var ErrWaitExpired = errs.New("timed out waiting for key lock")

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

type Locker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[uuid.UUID]*entry)}
}

// Acquire blocks until the key is free or ctx is done. The returned release func
// must be called exactly once.
func (l *Locker) Acquire(ctx context.Context, key uuid.UUID) (func(), error) {
	e := l.ref(key)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		l.unref(key)
		return nil, errs.Mark(errs.Wrap(err, "acquire "+key.String()), ErrWaitExpired)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.unref(key)
		})
	}, nil
}

// Held reports the number of keys with a holder or waiter.
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Locker) ref(key uuid.UUID) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) unref(key uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
