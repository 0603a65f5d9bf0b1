// Package session maps opaque session ids to per-session scenario stores.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rarorac-lab/internal/scenario"
)

var ErrNotFound = errors.New("session not found")

// Archive persists session snapshots outside the process. Load and Delete
// report found=false for an unknown id without an error.
type Archive interface {
	Save(ctx context.Context, id string, scenarios []scenario.Scenario, ttl time.Duration) error
	Load(ctx context.Context, id string) (scenarios []scenario.Scenario, found bool, err error)
	Delete(ctx context.Context, id string) (found bool, err error)
}

type entry struct {
	store     *scenario.Store
	expiresAt time.Time

	// persistMu orders archive writes for this session: each write
	// snapshots the store after acquiring it, so the last write carries
	// the newest state.
	persistMu sync.Mutex
}

// Registry holds one scenario.Store per session. Sessions idle for longer
// than the TTL are swept; a zero TTL keeps sessions until deleted.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	archive  Archive
	log      zerolog.Logger
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type Option func(*Registry)

// WithArchive enables write-through persistence and archive lookups for
// ids this process does not hold.
func WithArchive(a Archive) Option {
	return func(r *Registry) { r.archive = a }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(ttl time.Duration, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		log:      zerolog.Nop(),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the expiry sweep every interval until Close is called.
func (r *Registry) Start(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go r.cleanup(interval)
}

func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Create allocates a new empty session.
func (r *Registry) Create(ctx context.Context) (string, *scenario.Store) {
	id := uuid.NewString()
	store := scenario.NewStore()

	r.mu.Lock()
	r.sessions[id] = &entry{store: store, expiresAt: r.expiry()}
	r.mu.Unlock()

	r.Persist(ctx, id)
	return id, store
}

// Get returns the store for id and extends its lifetime. Ids unknown to this
// process are restored from the archive when one is configured.
func (r *Registry) Get(ctx context.Context, id string) (*scenario.Store, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok && r.expired(e) {
		delete(r.sessions, id)
		ok = false
	}
	if ok {
		e.expiresAt = r.expiry()
		r.mu.Unlock()
		return e.store, nil
	}
	r.mu.Unlock()

	if r.archive == nil {
		return nil, ErrNotFound
	}
	scenarios, found, err := r.archive.Load(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("session", id).Msg("archive load failed")
		return nil, ErrNotFound
	}
	if !found {
		return nil, ErrNotFound
	}

	store := scenario.NewStore()
	store.Restore(scenarios)

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have restored it first.
	if e, ok := r.sessions[id]; ok {
		return e.store, nil
	}
	r.sessions[id] = &entry{store: store, expiresAt: r.expiry()}
	r.log.Debug().Str("session", id).Int("scenarios", len(scenarios)).Msg("session restored from archive")
	return store, nil
}

// Delete drops the session locally and from the archive.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.archive != nil {
		found, err := r.archive.Delete(ctx, id)
		if err != nil {
			r.log.Warn().Err(err).Str("session", id).Msg("archive delete failed")
		}
		ok = ok || found
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Persist writes the session's current scenarios to the archive. Archive
// failures are logged and otherwise ignored.
func (r *Registry) Persist(ctx context.Context, id string) {
	if r.archive == nil {
		return
	}
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	e.persistMu.Lock()
	defer e.persistMu.Unlock()
	if err := r.archive.Save(ctx, id, e.store.Scenarios(), r.ttl); err != nil {
		r.log.Warn().Err(err).Str("session", id).Msg("archive save failed")
	}
}

// Len reports the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(r.ttl)
}

func (r *Registry) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && r.now().After(e.expiresAt)
}

func (r *Registry) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug().Int("expired", n).Msg("swept sessions")
			}
		}
	}
}
