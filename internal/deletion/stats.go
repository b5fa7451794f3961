package deletion

import (
	"fmt"
	"sync"
	"time"

	"github.com/buildlog/estimator/internal/metrics"
)

// sampleWindow bounds the latency history used for the average.
const sampleWindow = 100

type attemptRecord struct {
	elapsed time.Duration
	success bool
}

// Stats is a point-in-time snapshot of delete activity.
type Stats struct {
	TotalDeletes       int              `json:"total_deletes"`
	SuccessfulDeletes  int              `json:"successful_deletes"`
	FailedDeletes      int              `json:"failed_deletes"`
	SuccessRate        string           `json:"success_rate"`
	FailuresByCategory map[Category]int `json:"failures_by_category"`
	AvgLatency         time.Duration    `json:"avg_latency"`
}

// StatsCollector accumulates counters and latency samples across delete
// attempts. Start returns a timestamp the caller threads through to the
// matching Record call, so concurrent deletes never share mutable state
// between start and finish.
type StatsCollector struct {
	mu         sync.Mutex
	total      int
	successes  int
	failures   int
	byCategory map[Category]int
	samples    []attemptRecord
}

// NewStatsCollector creates an empty collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		byCategory: make(map[Category]int),
	}
}

// Start marks the beginning of a delete attempt.
func (c *StatsCollector) Start() time.Time {
	return time.Now()
}

// RecordSuccess records a successful delete that began at start.
func (c *StatsCollector) RecordSuccess(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.successes++
	c.appendSample(attemptRecord{elapsed: time.Since(start), success: true})
	metrics.DeletesTotal.WithLabelValues("success").Inc()
}

// RecordFailure records a failed delete, counting it under the failure
// category derived from err.
func (c *StatsCollector) RecordFailure(start time.Time, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	category := Classify(err)
	c.total++
	c.failures++
	c.byCategory[category]++
	c.appendSample(attemptRecord{elapsed: time.Since(start), success: false})
	metrics.DeletesTotal.WithLabelValues("failure").Inc()
	metrics.DeleteFailures.WithLabelValues(string(category)).Inc()
}

func (c *StatsCollector) appendSample(r attemptRecord) {
	if len(c.samples) >= sampleWindow {
		copy(c.samples, c.samples[1:])
		c.samples[len(c.samples)-1] = r
	} else {
		c.samples = append(c.samples, r)
	}
	metrics.DeleteLatency.Observe(r.elapsed.Seconds())
}

// Stats returns a snapshot. SuccessRate is a percentage string with one
// decimal; with no recorded deletes it is "0.0" rather than a separate
// numeric zero.
func (c *StatsCollector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		TotalDeletes:       c.total,
		SuccessfulDeletes:  c.successes,
		FailedDeletes:      c.failures,
		SuccessRate:        "0.0",
		FailuresByCategory: make(map[Category]int, len(c.byCategory)),
	}
	for k, v := range c.byCategory {
		s.FailuresByCategory[k] = v
	}

	if c.total > 0 {
		s.SuccessRate = fmt.Sprintf("%.1f", float64(c.successes)/float64(c.total)*100)
	}

	if len(c.samples) > 0 {
		var sum time.Duration
		for _, r := range c.samples {
			sum += r.elapsed
		}
		s.AvgLatency = sum / time.Duration(len(c.samples))
	}

	return s
}

// Reset zeroes all counters and clears the sample history.
func (c *StatsCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = 0
	c.successes = 0
	c.failures = 0
	c.byCategory = make(map[Category]int)
	c.samples = nil
}
