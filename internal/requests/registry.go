// Package requests tracks resolution requests that have been accepted but
// whose completion handler has not yet fired. The registry backs the daemon's
// status endpoint; it never participates in resolution itself.
package requests

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Entry describes one in-flight request.
type Entry struct {
	ID       string    // Unique identifier for the request
	Hostname string    // Name being resolved
	Kind     string    // "lookup" or "query"
	Started  time.Time // When the request was accepted
}

// Registry is a thread-safe in-flight request tracker.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Entry
	served atomic.Int64 // total completed requests
}

// NewRegistry creates an empty registry ready for use.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Entry),
	}
}

// Add records a newly accepted request.
func (r *Registry) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[e.ID] = e
}

// Done removes a completed request and bumps the served counter.
// Unknown ids are ignored so completion stays idempotent.
func (r *Registry) Done(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	r.served.Inc()
}

// InFlight returns the number of requests awaiting completion.
func (r *Registry) InFlight() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Served returns the total number of completed requests.
func (r *Registry) Served() int64 {
	return r.served.Load()
}

// Snapshot returns a copy of the current in-flight entries.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out
}
