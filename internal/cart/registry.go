package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/pkg/config"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

type sessionEntry struct {
	cart      *Cart
	expiresAt time.Time
}

// Registry keeps session carts in memory keyed by cart token. Entries
// expire after the configured TTL of inactivity and are reaped by Sweep.
type Registry struct {
	mtx      sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewRegistry builds an empty session cart registry.
func NewRegistry(cfg config.CartConfig) *Registry {
	return &Registry{
		sessions: make(map[string]*sessionEntry),
		ttl:      cfg.SessionTTL,
		interval: cfg.SweepInterval,
		now:      time.Now,
	}
}

// NewToken mints a fresh cart token.
func NewToken() string {
	return uuid.NewString()
}

// acquireLocked returns the cart for the token, creating an empty one when
// the token is unknown or its previous cart expired. Each acquire renews
// the TTL. Callers must hold the registry mutex.
func (r *Registry) acquireLocked(token string) *Cart {
	now := r.now()
	entry, ok := r.sessions[token]
	if !ok || now.After(entry.expiresAt) {
		entry = &sessionEntry{cart: &Cart{Token: token}}
		r.sessions[token] = entry
	}
	entry.expiresAt = now.Add(r.ttl)
	entry.cart.UpdatedAt = now
	return entry.cart
}

// With runs fn against the cart for the token while holding the registry
// lock, so concurrent requests sharing a token mutate the cart one at a
// time. The cart pointer must not escape fn.
func (r *Registry) With(token string, fn func(*Cart)) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	fn(r.acquireLocked(token))
}

// Snapshot returns a detached copy of the cart for the token, safe to
// read after the lock is released.
func (r *Registry) Snapshot(token string) *Cart {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.acquireLocked(token).clone()
}

// Drop removes the session outright.
func (r *Registry) Drop(token string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	delete(r.sessions, token)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.sessions)
}

// sweep removes expired sessions and reports how many were dropped.
func (r *Registry) sweep() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	now := r.now()
	dropped := 0
	for token, entry := range r.sessions {
		if now.After(entry.expiresAt) {
			delete(r.sessions, token)
			dropped++
		}
	}
	return dropped
}

// Sweep runs the expiry reaper until the context is canceled.
func (r *Registry) Sweep(ctx context.Context, logg *logger.Logger) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := r.sweep(); dropped > 0 && logg != nil {
				logg.Info(logg.WithFields(ctx, map[string]any{"dropped": dropped}), "expired cart sessions reaped")
			}
		}
	}
}
