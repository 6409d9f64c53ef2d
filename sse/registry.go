package sse

import (
	"sync"
)

// Registry is the mutable collection of active subscribers for one event
// source instance. All operations serialize through a single mutex; hold
// time is bounded to list manipulation, never network I/O.
type Registry struct {
	mu      sync.Mutex
	entries []*Subscriber
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Admit inserts sub unless an entry with the same ID is already present or
// the registry has been closed. Returns true when the entry was inserted.
// Duplicate admission is a no-op so retried work items stay idempotent.
func (r *Registry) Admit(sub *Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	for _, e := range r.entries {
		if e.ID == sub.ID {
			return false
		}
	}
	r.entries = append(r.entries, sub)
	return true
}

// RemoveByID removes and returns the entry matching id. The entry is
// returned at most once across all callers, which makes removal the
// exactly-once gate for stream teardown.
func (r *Registry) RemoveByID(id string) (*Subscriber, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return e, true
		}
	}
	return nil, false
}

// Snapshot returns a point-in-time copy of the entries in insertion order,
// for iteration outside the lock.
func (r *Registry) Snapshot() []*Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Subscriber, len(r.entries))
	copy(out, r.entries)
	return out
}

// Evict removes every entry whose ID is in ids, in one lock acquisition,
// and returns the removed entries. This is the broadcast reconcile step:
// entries already removed by a racing disconnect are simply absent.
func (r *Registry) Evict(ids []string) []*Subscriber {
	if len(ids) == 0 {
		return nil
	}
	failed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		failed[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	retained := r.entries[:0]
	var removed []*Subscriber
	for _, e := range r.entries {
		if _, ok := failed[e.ID]; ok {
			removed = append(removed, e)
		} else {
			retained = append(retained, e)
		}
	}
	r.entries = retained
	return removed
}

// DrainAll atomically empties the registry and returns everything that was
// present, for shutdown and redeploy paths.
func (r *Registry) DrainAll() []*Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.entries
	r.entries = nil
	return out
}

// Close drains the registry and marks it closed: an Admit racing the drain
// either landed before (and is in the returned slice) or is dropped.
func (r *Registry) Close() []*Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	out := r.entries
	r.entries = nil
	return out
}

// Len returns the current number of entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// IDs returns the current entry IDs in insertion order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}
