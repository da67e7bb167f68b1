// Package lock serializes tree mutations per owner.
package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Unlock releases a lock obtained from OwnerLocker.Lock
type Unlock func()

// OwnerLocker hands out one mutation slot per owner at a time
type OwnerLocker interface {
	// Lock blocks until the owner's slot is free or ctx is done
	Lock(ctx context.Context, owner uuid.UUID) (Unlock, error)
}

// Noop never blocks. Concurrent mutations of one owner may interleave.
type Noop struct{}

func (Noop) Lock(context.Context, uuid.UUID) (Unlock, error) {
	return func() {}, nil
}

// Local serializes mutations within this process
type Local struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocal creates an in-process owner locker
func NewLocal() *Local {
	return &Local{slots: make(map[uuid.UUID]*slot)}
}

func (l *Local) Lock(ctx context.Context, owner uuid.UUID) (Unlock, error) {
	l.mu.Lock()
	s, ok := l.slots[owner]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[owner] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(owner, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(owner, s)
		})
	}, nil
}

func (l *Local) release(owner uuid.UUID, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, owner)
	}
}
