package diag

import (
	"sync"
)

// ListenerRegistry deduplicates event subscriptions by key. Registering
// under a key that is already taken tears down the previous
// registration first, so a re-subscribing caller can never stack up
// duplicate listeners.
type ListenerRegistry struct {
	mu       sync.Mutex
	cleanups map[string]func()
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{
		cleanups: make(map[string]func()),
	}
}

// Register stores cleanup under key, invoking and replacing any
// previous cleanup registered under the same key.
func (r *ListenerRegistry) Register(key string, cleanup func()) {
	r.mu.Lock()
	prev := r.cleanups[key]
	r.cleanups[key] = cleanup
	r.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Unregister invokes and removes the cleanup for key, if any.
func (r *ListenerRegistry) Unregister(key string) {
	r.mu.Lock()
	cleanup := r.cleanups[key]
	delete(r.cleanups, key)
	r.mu.Unlock()

	if cleanup != nil {
		cleanup()
	}
}

// Count returns the number of live registrations.
func (r *ListenerRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cleanups)
}

// Close releases every registration.
func (r *ListenerRegistry) Close() {
	r.mu.Lock()
	cleanups := r.cleanups
	r.cleanups = make(map[string]func())
	r.mu.Unlock()

	for _, cleanup := range cleanups {
		if cleanup != nil {
			cleanup()
		}
	}
}
