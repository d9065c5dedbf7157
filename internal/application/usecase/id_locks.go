package usecase

import (
	"context"
	"sync"

	"github.com/bnema/omni/internal/domain/entity"
)

// idLocks serializes work per uniqueId. Different ids never block each other.
type idLocks struct {
	mu   sync.Mutex
	held map[entity.UniqueID]chan struct{}
}

func newIDLocks() *idLocks {
	return &idLocks{held: make(map[entity.UniqueID]chan struct{})}
}

// lock waits until id is free or ctx is done.
func (l *idLocks) lock(ctx context.Context, id entity.UniqueID) (func(), error) {
	for {
		l.mu.Lock()
		done, busy := l.held[id]
		if !busy {
			release := l.acquireLocked(id)
			l.mu.Unlock()
			return release, nil
		}
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// tryLock takes id only if nobody holds it.
func (l *idLocks) tryLock(id entity.UniqueID) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[id]; busy {
		return nil, false
	}
	return l.acquireLocked(id), true
}

func (l *idLocks) acquireLocked(id entity.UniqueID) func() {
	done := make(chan struct{})
	l.held[id] = done
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, id)
			l.mu.Unlock()
			close(done)
		})
	}
}
