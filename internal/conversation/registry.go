package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"query-gateway/pkg/log"
)

const (
	DefaultSessionTTL = 10 * time.Minute

	logPrefixRegistry = "internal.conversation.Registry"
)

// Registry hands out one Manager per session id and forgets idle sessions.
type Registry struct {
	mu    sync.Mutex
	store *cache.Cache
	limit int
	ttl   time.Duration
	l     log.Logger
}

// NewRegistry creates a registry whose sessions expire after ttl without use.
func NewRegistry(limit int, ttl time.Duration, l log.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	r := &Registry{
		store: cache.New(ttl, ttl/2),
		limit: limit,
		ttl:   ttl,
		l:     l,
	}
	r.store.OnEvicted(func(id string, _ interface{}) {
		r.l.Debugf(context.Background(), "%s: session %s expired", logPrefixRegistry, id)
	})
	return r
}

// Session returns the manager for id, creating it on first use. Each call
// extends the session's lifetime.
func (r *Registry) Session(id string) (*Manager, error) {
	if id == "" {
		return nil, ErrSessionIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.store.Get(id); ok {
		m := v.(*Manager)
		r.store.Set(id, m, r.ttl)
		return m, nil
	}
	m := NewManager(r.limit)
	r.store.Set(id, m, r.ttl)
	return m, nil
}

// Lookup returns the manager for id without creating one.
func (r *Registry) Lookup(id string) (*Manager, bool) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Manager), true
}

// Drop forgets the session.
func (r *Registry) Drop(id string) {
	r.store.Delete(id)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	return r.store.ItemCount()
}
