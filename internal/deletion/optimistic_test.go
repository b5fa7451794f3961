package deletion

import (
	"testing"
	"time"
)

type testProject struct {
	id      string
	name    string
	updated time.Time
}

func (p *testProject) EntityID() string    { return p.id }
func (p *testProject) EntityLabel() string { return p.name }

// recency-aware variant
type recentProject struct {
	testProject
}

func (p *recentProject) RecencyKey() time.Time { return p.updated }

// testState simulates caller-held collection state.
type testState[T Entity] struct {
	items   []T
	applied int
}

func (s *testState[T]) apply(transform func([]T) []T) {
	s.applied++
	s.items = transform(s.items)
}

func TestOptimisticDeleteRemovesImmediately(t *testing.T) {
	m := NewOptimisticManager[*testProject]()
	p1 := &testProject{id: "p1", name: "Roof Repair"}
	p2 := &testProject{id: "p2", name: "Driveway"}
	state := &testState[*testProject]{items: []*testProject{p1, p2}}

	m.Delete("p1", p1, state.apply)

	if state.applied != 1 {
		t.Errorf("expected exactly 1 update, got %d", state.applied)
	}
	if len(state.items) != 1 || state.items[0].id != "p2" {
		t.Errorf("expected p1 removed, have %v", state.items)
	}
	if !m.IsPending("p1") {
		t.Error("expected p1 to be pending")
	}
}

func TestConfirmLeavesNoPendingRecord(t *testing.T) {
	m := NewOptimisticManager[*testProject]()
	p1 := &testProject{id: "p1", name: "Roof Repair"}
	state := &testState[*testProject]{items: []*testProject{p1}}

	m.Delete("p1", p1, state.apply)
	m.Confirm("p1")

	if m.IsPending("p1") {
		t.Error("expected no pending record after confirm")
	}
	if state.applied != 1 {
		t.Errorf("confirm must not touch state; got %d updates", state.applied)
	}

	// Idempotent no-op.
	m.Confirm("p1")
	if state.applied != 1 {
		t.Errorf("repeated confirm must be a no-op; got %d updates", state.applied)
	}
}

func TestRollbackReinserts(t *testing.T) {
	m := NewOptimisticManager[*testProject]()
	p1 := &testProject{id: "p1", name: "Roof Repair"}
	state := &testState[*testProject]{items: []*testProject{p1}}

	m.Delete("p1", p1, state.apply)
	m.Rollback("p1")

	if state.applied != 2 {
		t.Errorf("expected 2 updates (remove then reinsert), got %d", state.applied)
	}
	if len(state.items) != 1 || state.items[0].id != "p1" {
		t.Errorf("expected p1 restored, have %v", state.items)
	}
	if m.IsPending("p1") {
		t.Error("expected no pending record after rollback")
	}

	// Rollback with nothing pending is a silent no-op.
	m.Rollback("p1")
	if state.applied != 2 {
		t.Errorf("rollback without pending must not update state; got %d", state.applied)
	}
}

func TestRollbackDoesNotDuplicate(t *testing.T) {
	m := NewOptimisticManager[*testProject]()
	p1 := &testProject{id: "p1", name: "Roof Repair"}
	state := &testState[*testProject]{items: []*testProject{p1}}

	m.Delete("p1", p1, state.apply)

	// A concurrent refresh re-added the row before the rollback landed.
	state.items = append(state.items, p1)

	m.Rollback("p1")
	count := 0
	for _, item := range state.items {
		if item.id == "p1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one p1 after guarded rollback, got %d", count)
	}
}

func TestRollbackOrdersNewestFirst(t *testing.T) {
	m := NewOptimisticManager[*recentProject]()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	oldest := &recentProject{testProject{id: "p1", name: "A", updated: base}}
	middle := &recentProject{testProject{id: "p2", name: "B", updated: base.Add(time.Hour)}}
	newest := &recentProject{testProject{id: "p3", name: "C", updated: base.Add(2 * time.Hour)}}
	state := &testState[*recentProject]{items: []*recentProject{newest, middle, oldest}}

	m.Delete("p3", newest, state.apply)
	m.Rollback("p3")

	want := []string{"p3", "p2", "p1"}
	for i, id := range want {
		if state.items[i].id != id {
			t.Fatalf("position %d = %s, want %s (items %v)", i, state.items[i].id, id, state.items)
		}
	}
}

func TestSecondDeleteOverwritesPending(t *testing.T) {
	m := NewOptimisticManager[*testProject]()
	p1 := &testProject{id: "p1", name: "first snapshot"}
	p1b := &testProject{id: "p1", name: "second snapshot"}
	state := &testState[*testProject]{items: []*testProject{p1}}

	m.Delete("p1", p1, state.apply)
	m.Delete("p1", p1b, state.apply)
	m.Rollback("p1")

	// Last writer wins: the second snapshot comes back.
	if len(state.items) != 1 || state.items[0].name != "second snapshot" {
		t.Errorf("expected last-writer-wins rollback, have %v", state.items)
	}
}

func TestClearAbandonsWithoutRollback(t *testing.T) {
	m := NewOptimisticManager[*testProject]()
	p1 := &testProject{id: "p1", name: "Roof Repair"}
	state := &testState[*testProject]{items: []*testProject{p1}}

	m.Delete("p1", p1, state.apply)
	m.Clear()

	if m.IsPending("p1") {
		t.Error("expected nothing pending after clear")
	}
	if len(state.items) != 0 {
		t.Error("clear must abandon, not roll back")
	}
}
