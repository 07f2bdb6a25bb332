package cart

import (
	"context"
	"sync"
	"time"

	"github.com/lauracastellan/velora-backend/pkg/logger"
)

// Registry maps session ids to cart stores. Carts live only in memory: a
// session's cart is created on first touch and dropped once the session has
// been idle past the TTL. A zero TTL disables eviction.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Store
	ttl   time.Duration
}

// NewRegistry builds an empty registry with the supplied idle TTL.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		carts: make(map[string]*Store),
		ttl:   ttl,
	}
}

// Get returns the session's cart, creating an empty one on first touch.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.carts[sessionID]
	if !ok {
		store = NewStore()
		r.carts[sessionID] = store
	}
	return store
}

// Len reports how many session carts are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Sweep drops carts idle past the TTL and returns how many were evicted.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for sessionID, store := range r.carts {
		if store.LastActive().Before(cutoff) {
			delete(r.carts, sessionID)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep on the given interval until the context ends.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration, logg *logger.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := r.Sweep(); evicted > 0 && logg != nil {
					swept := logg.WithField(ctx, "evicted", evicted)
					logg.Info(swept, "cart.sessions.swept")
				}
			}
		}
	}()
}
