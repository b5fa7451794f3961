package deletion

import (
	"errors"
	"testing"
	"time"
)

func TestStatsCountsAndRate(t *testing.T) {
	c := NewStatsCollector()

	start := c.Start()
	c.RecordSuccess(start)
	c.RecordSuccess(c.Start())
	c.RecordFailure(c.Start(), errors.New("network down"))

	s := c.Stats()
	if s.TotalDeletes != 3 {
		t.Errorf("TotalDeletes = %d, want 3", s.TotalDeletes)
	}
	if s.SuccessfulDeletes != 2 {
		t.Errorf("SuccessfulDeletes = %d, want 2", s.SuccessfulDeletes)
	}
	if s.FailedDeletes != 1 {
		t.Errorf("FailedDeletes = %d, want 1", s.FailedDeletes)
	}
	if s.SuccessRate != "66.7" {
		t.Errorf("SuccessRate = %q, want %q", s.SuccessRate, "66.7")
	}
	if s.FailuresByCategory[CategoryNetwork] != 1 {
		t.Errorf("expected the failure counted under network, have %v", s.FailuresByCategory)
	}
}

func TestStatsZeroTotalRate(t *testing.T) {
	c := NewStatsCollector()
	s := c.Stats()
	// Normalized: a string in all cases, "0.0" when nothing recorded.
	if s.SuccessRate != "0.0" {
		t.Errorf("SuccessRate = %q, want %q", s.SuccessRate, "0.0")
	}
	if s.AvgLatency != 0 {
		t.Errorf("AvgLatency = %v, want 0", s.AvgLatency)
	}
}

func TestStatsReset(t *testing.T) {
	c := NewStatsCollector()
	c.RecordSuccess(c.Start())
	c.RecordFailure(c.Start(), errors.New("timeout"))

	c.Reset()
	s := c.Stats()
	if s.TotalDeletes != 0 || s.SuccessfulDeletes != 0 || s.FailedDeletes != 0 {
		t.Errorf("expected zeroed counters, have %+v", s)
	}
	if len(s.FailuresByCategory) != 0 {
		t.Errorf("expected empty category map, have %v", s.FailuresByCategory)
	}
	if s.SuccessRate != "0.0" {
		t.Errorf("SuccessRate = %q, want %q", s.SuccessRate, "0.0")
	}
}

func TestStatsLatencyWindowSlides(t *testing.T) {
	c := NewStatsCollector()
	for i := 0; i < sampleWindow+20; i++ {
		c.RecordSuccess(time.Now())
	}

	c.mu.Lock()
	n := len(c.samples)
	c.mu.Unlock()
	if n != sampleWindow {
		t.Errorf("expected sample history capped at %d, got %d", sampleWindow, n)
	}

	s := c.Stats()
	if s.TotalDeletes != sampleWindow+20 {
		t.Errorf("counters must not be windowed; TotalDeletes = %d", s.TotalDeletes)
	}
}

func TestStatsAverageLatency(t *testing.T) {
	c := NewStatsCollector()
	c.RecordSuccess(time.Now().Add(-100 * time.Millisecond))
	c.RecordSuccess(time.Now().Add(-200 * time.Millisecond))

	s := c.Stats()
	if s.AvgLatency < 140*time.Millisecond || s.AvgLatency > 160*time.Millisecond {
		t.Errorf("AvgLatency = %v, want ~150ms", s.AvgLatency)
	}
}
