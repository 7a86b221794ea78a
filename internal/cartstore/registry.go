package cartstore

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"golang.org/x/sync/singleflight"
	"sync"
	"time"
)

// Registry hands out one Store per cart key, opening it from storage on first use.
type Registry struct {
	storage   port.CartStorage
	publisher port.EventPublisher
	opts      []Option
	now       func() time.Time

	sfg singleflight.Group // one storage load per key

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	store    *Store
	lastUsed time.Time
}

func NewRegistry(storage port.CartStorage, publisher port.EventPublisher, opts ...Option) *Registry {
	return &Registry{
		storage:   storage,
		publisher: publisher,
		opts:      opts,
		now:       clockOf(opts),
		entries:   make(map[string]*entry),
	}
}

// Get returns the store of key and keeps it in memory until evicted.
func (r *Registry) Get(ctx context.Context, key string) *Store {
	if s, ok := r.lookup(key); ok {
		return s
	}

	v, _, _ := r.sfg.Do(key, func() (any, error) {
		if s, ok := r.lookup(key); ok {
			return s, nil
		}

		s := Open(context.WithoutCancel(ctx), key, r.storage, r.publisher, r.opts...)

		r.mu.Lock()
		r.entries[key] = &entry{store: s, lastUsed: r.now()}
		r.mu.Unlock()

		return s, nil
	})

	return v.(*Store)
}

// Peek returns the registered store of key, or a store opened from storage that the
// registry does not keep. Read-only requests use it so browsing retains no state.
func (r *Registry) Peek(ctx context.Context, key string) *Store {
	if s, ok := r.lookup(key); ok {
		return s
	}
	return Open(ctx, key, r.storage, r.publisher, r.opts...)
}

func (r *Registry) lookup(key string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()

	return e.store, true
}

// Evict drops the in-memory store of key and the publisher's state for it.
// The persisted cart is left untouched.
func (r *Registry) Evict(key string) {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()

	r.forget(key)
}

// EvictIdle drops every store not used since before and returns how many were dropped.
func (r *Registry) EvictIdle(before time.Time) int {
	var evicted []string

	r.mu.Lock()
	for key, e := range r.entries {
		if e.lastUsed.Before(before) {
			delete(r.entries, key)
			evicted = append(evicted, key)
		}
	}
	r.mu.Unlock()

	for _, key := range evicted {
		r.forget(key)
	}

	return len(evicted)
}

// RunJanitor evicts stores idle for longer than idle every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval, idle time.Duration, onSweep func(evicted, remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := r.EvictIdle(r.now().Add(-idle))
			if onSweep != nil {
				onSweep(evicted, r.Len())
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// clockOf returns the clock that WithClock set in opts, so stores and the registry
// agree on time.
func clockOf(opts []Option) func() time.Time {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s.now
}

func (r *Registry) forget(key string) {
	if f, ok := r.publisher.(port.Forgetter); ok {
		f.Forget(key)
	}
}
