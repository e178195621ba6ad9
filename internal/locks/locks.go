package locks

import (
	"context"
	"sync"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// Locker serializes critical sections by key. The entitlement gate relies on
// it to make the quota check and the consumption write atomic per user;
// different users' keys never contend with each other.
type Locker interface {
	// WithLock runs fn while holding the lock for the given key
	WithLock(ctx context.Context, scope types.LockScope, params map[string]interface{}, fn func(ctx context.Context) error) error
}

// Manager is an in-process Locker backed by per-key mutexes. Entries are
// reference counted and removed when the last holder releases, so the map
// does not grow with the key space.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a new lock manager
func NewManager() *Manager {
	return &Manager{
		locks: make(map[string]*entry),
	}
}

// WithLock runs fn while holding the lock for the generated key
func (m *Manager) WithLock(ctx context.Context, scope types.LockScope, params map[string]interface{}, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return ierr.WithError(err).
			WithHint("Request cancelled before lock acquisition").
			Mark(ierr.ErrSystem)
	}

	key := types.GenerateLockKey(scope, params)
	e := m.acquire(key)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		m.release(key)
	}()

	return fn(ctx)
}

func (m *Manager) acquire(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(m.locks, key)
	}
}
