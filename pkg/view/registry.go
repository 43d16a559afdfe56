package view

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/gitgraph/pkg/errors"
)

// DefaultIdleTimeout is how long an unused view survives in a [Registry].
const DefaultIdleTimeout = 30 * time.Minute

// Registry indexes live views by id.
type Registry struct {
	mu    sync.RWMutex
	views map[string]*View
	idle  time.Duration
}

// NewRegistry creates a registry expiring views after idle. A non-positive
// idle selects [DefaultIdleTimeout].
func NewRegistry(idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{views: make(map[string]*View), idle: idle}
}

// Create makes a new empty view and registers it.
func (r *Registry) Create(opts Options) *View {
	v := New(opts)
	r.Add(v)
	return v
}

// Add registers v under its id.
func (r *Registry) Add(v *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID()] = v
}

// Get returns the view with id, or a VIEW_NOT_FOUND error.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.RLock()
	v, ok := r.views[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %q not found", id)
	}
	v.touch()
	return v, nil
}

// Delete removes the view with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[id]; !ok {
		return errors.New(errors.ErrCodeViewNotFound, "view %q not found", id)
	}
	delete(r.views, id)
	return nil
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Sweep removes views idle since before now minus the idle timeout and
// returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.views {
		if v.LastUsed().Before(cutoff) {
			delete(r.views, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = r.idle / 4
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			r.Sweep(now)
		}
	}
}
