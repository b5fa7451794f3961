package deletion

import (
	"sort"
	"sync"
	"time"
)

// Entity is the minimum shape the delete subsystem needs from a
// caller-owned record: an identifier and a display label. comparable is
// required so a zero value can stand for "no snapshot".
type Entity interface {
	comparable
	EntityID() string
	EntityLabel() string
}

// recencyKeyed is optionally implemented by entities that carry a
// caller-visible recency field; rollback uses it to reinsert
// newest-first.
type recencyKeyed interface {
	RecencyKey() time.Time
}

// UpdateFunc applies a collection transform to caller-held state. The
// core supplies the transform (remove-by-id or reinsert); the caller
// decides where the collection lives.
type UpdateFunc[T Entity] func(transform func([]T) []T)

type pendingDeletion[T Entity] struct {
	snapshot T
	update   UpdateFunc[T]
}

// OptimisticManager removes entities from caller-held state before the
// backing store confirms, retaining enough to restore them on failure.
// Snapshot and update callback are stored together under one lock so
// the two can never drift apart.
type OptimisticManager[T Entity] struct {
	mu      sync.Mutex
	pending map[string]pendingDeletion[T]
}

// NewOptimisticManager creates an empty manager.
func NewOptimisticManager[T Entity]() *OptimisticManager[T] {
	return &OptimisticManager[T]{
		pending: make(map[string]pendingDeletion[T]),
	}
}

// Delete records the snapshot and update callback under id, then
// synchronously removes id from the caller's collection. Caller-visible
// state changes immediately, before any backend confirmation. A second
// Delete for an id that is already pending overwrites the pending
// record (last writer wins).
func (m *OptimisticManager[T]) Delete(id string, snapshot T, update UpdateFunc[T]) {
	m.mu.Lock()
	m.pending[id] = pendingDeletion[T]{snapshot: snapshot, update: update}
	m.mu.Unlock()

	update(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, item := range items {
			if item.EntityID() != id {
				out = append(out, item)
			}
		}
		return out
	})
}

// Confirm discards the pending record for id. No-op if id is not
// pending. Irreversible.
func (m *OptimisticManager[T]) Confirm(id string) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

// Rollback reinserts the retained snapshot into the caller's
// collection and clears the pending record. The reinsertion is guarded
// against duplication (a concurrent refresh may have re-added the id)
// and ordered newest-first when the entity carries a recency key.
// No-op if id is not pending.
func (m *OptimisticManager[T]) Rollback(id string) {
	m.mu.Lock()
	p, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	p.update(func(items []T) []T {
		for _, item := range items {
			if item.EntityID() == id {
				return items // already present, do not duplicate
			}
		}
		out := append(append(make([]T, 0, len(items)+1), items...), p.snapshot)
		if _, keyed := any(p.snapshot).(recencyKeyed); keyed {
			sort.SliceStable(out, func(i, j int) bool {
				return any(out[i]).(recencyKeyed).RecencyKey().
					After(any(out[j]).(recencyKeyed).RecencyKey())
			})
		}
		return out
	})
}

// IsPending reports whether an optimistic delete for id is in flight.
func (m *OptimisticManager[T]) IsPending(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[id]
	return ok
}

// Clear abandons every pending record without rollback. Used on
// teardown: in-flight optimistic deletes are dropped, not restored.
func (m *OptimisticManager[T]) Clear() {
	m.mu.Lock()
	m.pending = make(map[string]pendingDeletion[T])
	m.mu.Unlock()
}
