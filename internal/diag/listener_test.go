package diag

import (
	"testing"
)

func TestListenerRegistryDeduplicates(t *testing.T) {
	r := NewListenerRegistry()

	cleaned := 0
	r.Register("session-1", func() { cleaned++ })
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	// Re-registering the same key tears down the previous listener.
	r.Register("session-1", func() { cleaned += 10 })
	if cleaned != 1 {
		t.Errorf("previous cleanup not invoked; cleaned = %d", cleaned)
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1 after re-register", r.Count())
	}
}

func TestListenerRegistryUnregister(t *testing.T) {
	r := NewListenerRegistry()

	cleaned := false
	r.Register("k", func() { cleaned = true })
	r.Unregister("k")

	if !cleaned {
		t.Error("cleanup not invoked on unregister")
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}

	// Unknown key is a no-op.
	r.Unregister("missing")
}

func TestListenerRegistryClose(t *testing.T) {
	r := NewListenerRegistry()

	cleaned := 0
	r.Register("a", func() { cleaned++ })
	r.Register("b", func() { cleaned++ })

	r.Close()
	if cleaned != 2 {
		t.Errorf("expected both cleanups, got %d", cleaned)
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}
}
