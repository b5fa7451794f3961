package diag

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	slowDeleteThreshold   = 1 * time.Second
	memoryGrowthThreshold = 1 << 20 // 1 MiB
)

// OperationMetric holds timing and memory data for one operation.
type OperationMetric struct {
	Name         string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	MemoryBefore uint64
	MemoryAfter  uint64
	completed    bool
}

// OperationStats aggregates completed operations sharing a name.
// Durations are millisecond strings with two decimals.
type OperationStats struct {
	Count       int    `json:"count"`
	AvgDuration string `json:"avg_duration"`
	MinDuration string `json:"min_duration"`
	MaxDuration string `json:"max_duration"`
}

// PerformanceMonitor times operations and watches heap growth across
// them. Warnings are logged, never returned.
type PerformanceMonitor struct {
	mu      sync.Mutex
	metrics map[string]*OperationMetric
	log     *slog.Logger
}

// NewPerformanceMonitor creates a monitor logging through log.
func NewPerformanceMonitor(log *slog.Logger) *PerformanceMonitor {
	if log == nil {
		log = slog.Default()
	}
	return &PerformanceMonitor{
		metrics: make(map[string]*OperationMetric),
		log:     log,
	}
}

// StartOperation begins timing an operation and captures a heap
// snapshot. The returned id is a name+timestamp+random composite;
// uniqueness is advisory, not cryptographic.
func (pm *PerformanceMonitor) StartOperation(name string) string {
	id := fmt.Sprintf("%s-%d-%s", name, time.Now().UnixMilli(), uuid.NewString()[:8])

	pm.mu.Lock()
	pm.metrics[id] = &OperationMetric{
		Name:         name,
		StartTime:    time.Now(),
		MemoryBefore: heapAlloc(),
	}
	pm.mu.Unlock()

	return id
}

// EndOperation completes the record for id. Unknown ids are ignored.
// Two independent warning conditions are checked: slow delete
// operations (>1s) and heap growth over 1 MiB.
func (pm *PerformanceMonitor) EndOperation(id string) {
	pm.mu.Lock()
	m, ok := pm.metrics[id]
	if !ok {
		pm.mu.Unlock()
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.MemoryAfter = heapAlloc()
	m.completed = true
	pm.mu.Unlock()

	if strings.Contains(m.Name, "delete") && m.Duration > slowDeleteThreshold {
		pm.log.Warn("slow delete operation",
			"operation", m.Name,
			"duration", m.Duration,
		)
	}
	if m.MemoryAfter > m.MemoryBefore && m.MemoryAfter-m.MemoryBefore > memoryGrowthThreshold {
		pm.log.Warn("memory growth during operation",
			"operation", m.Name,
			"growth_bytes", m.MemoryAfter-m.MemoryBefore,
		)
	}
}

// OperationStats aggregates all completed records for name, or nil when
// none exist.
func (pm *PerformanceMonitor) OperationStats(name string) *OperationStats {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var durations []time.Duration
	for _, m := range pm.metrics {
		if m.Name == name && m.completed {
			durations = append(durations, m.Duration)
		}
	}
	if len(durations) == 0 {
		return nil
	}

	minD, maxD := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		sum += d
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	avg := sum / time.Duration(len(durations))

	return &OperationStats{
		Count:       len(durations),
		AvgDuration: formatMillis(avg),
		MinDuration: formatMillis(minD),
		MaxDuration: formatMillis(maxD),
	}
}

// ClearMetrics discards all records.
func (pm *PerformanceMonitor) ClearMetrics() {
	pm.mu.Lock()
	pm.metrics = make(map[string]*OperationMetric)
	pm.mu.Unlock()
}

func formatMillis(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d)/float64(time.Millisecond))
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
