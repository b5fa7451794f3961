package diag

import (
	"strconv"
	"testing"
	"time"
)

func parseMillis(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("bad duration string %q: %v", s, err)
	}
	return v
}

func TestPerformanceMonitorSingleOperation(t *testing.T) {
	pm := NewPerformanceMonitor(nil)

	id := pm.StartOperation("x")
	time.Sleep(100 * time.Millisecond)
	pm.EndOperation(id)

	stats := pm.OperationStats("x")
	if stats == nil {
		t.Fatal("expected stats for x")
	}
	if stats.Count != 1 {
		t.Errorf("Count = %d, want 1", stats.Count)
	}

	avg := parseMillis(t, stats.AvgDuration)
	if avg < 90 || avg > 200 {
		t.Errorf("AvgDuration = %v, want ~100ms", avg)
	}
	if stats.MinDuration != stats.AvgDuration || stats.MaxDuration != stats.AvgDuration {
		t.Errorf("single sample: min/avg/max should agree, got %+v", stats)
	}
}

func TestPerformanceMonitorAggregates(t *testing.T) {
	pm := NewPerformanceMonitor(nil)

	a := pm.StartOperation("save")
	time.Sleep(50 * time.Millisecond)
	pm.EndOperation(a)

	b := pm.StartOperation("save")
	time.Sleep(100 * time.Millisecond)
	pm.EndOperation(b)

	stats := pm.OperationStats("save")
	if stats == nil {
		t.Fatal("expected stats")
	}
	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}

	minD := parseMillis(t, stats.MinDuration)
	maxD := parseMillis(t, stats.MaxDuration)
	avgD := parseMillis(t, stats.AvgDuration)
	if minD > maxD {
		t.Errorf("min %v > max %v", minD, maxD)
	}
	if avgD < minD || avgD > maxD {
		t.Errorf("avg %v outside [%v, %v]", avgD, minD, maxD)
	}
}

func TestPerformanceMonitorUnknownName(t *testing.T) {
	pm := NewPerformanceMonitor(nil)
	if stats := pm.OperationStats("missing"); stats != nil {
		t.Errorf("expected nil for unknown name, got %+v", stats)
	}
}

func TestPerformanceMonitorIncompleteExcluded(t *testing.T) {
	pm := NewPerformanceMonitor(nil)
	pm.StartOperation("open")
	if stats := pm.OperationStats("open"); stats != nil {
		t.Errorf("incomplete operations must not aggregate, got %+v", stats)
	}
}

func TestPerformanceMonitorEndUnknownID(t *testing.T) {
	pm := NewPerformanceMonitor(nil)
	pm.EndOperation("nope") // must not panic
}

func TestPerformanceMonitorClearMetrics(t *testing.T) {
	pm := NewPerformanceMonitor(nil)
	id := pm.StartOperation("x")
	pm.EndOperation(id)

	pm.ClearMetrics()
	if stats := pm.OperationStats("x"); stats != nil {
		t.Errorf("expected nil after clear, got %+v", stats)
	}
}

func TestOperationIDsDiffer(t *testing.T) {
	pm := NewPerformanceMonitor(nil)
	a := pm.StartOperation("x")
	b := pm.StartOperation("x")
	if a == b {
		t.Error("expected distinct operation ids")
	}
}
