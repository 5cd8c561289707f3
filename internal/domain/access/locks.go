package access

import (
	"sync"

	"github.com/google/uuid"
)

// userLocks serializes balance and entitlement mutations per user. The
// reconciliation pass and the authorization decision run as one critical
// section, so two concurrent requests cannot both observe a sufficient
// balance or double-prune payment references.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uuid.UUID]*userLock)}
}

func (l *userLocks) lock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &userLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *userLocks) unlock(id uuid.UUID) {
	l.mu.Lock()
	entry := l.locks[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
