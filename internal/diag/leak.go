package diag

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// leakThreshold is the per-tag live count above which a warning fires.
const leakThreshold = 100

// LeakDetector counts outstanding object references per type tag. This
// is advisory accounting, not garbage-collection analysis: counts are
// only accurate when every Track is paired with an Untrack, and a
// missed Untrack shows up as a false positive. Tracking never keeps an
// object alive beyond the map entry itself, which the caller is
// expected to remove.
type LeakDetector struct {
	mu      sync.Mutex
	tags    map[any]string
	counts  map[string]int
	cancel  context.CancelFunc
	stopped chan struct{}
	log     *slog.Logger
}

// NewLeakDetector creates a detector logging through log.
func NewLeakDetector(log *slog.Logger) *LeakDetector {
	if log == nil {
		log = slog.Default()
	}
	return &LeakDetector{
		tags:   make(map[any]string),
		counts: make(map[string]int),
		log:    log,
	}
}

// Track associates obj with tag and increments the tag's counter.
func (ld *LeakDetector) Track(obj any, tag string) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	ld.tags[obj] = tag
	ld.counts[tag]++
}

// Untrack removes the association if present. Counters never go below
// zero.
func (ld *LeakDetector) Untrack(obj any) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	tag, ok := ld.tags[obj]
	if !ok {
		return
	}
	delete(ld.tags, obj)
	if ld.counts[tag] > 0 {
		ld.counts[tag]--
	}
}

// CheckForLeaks warns for every tag whose live count exceeds the
// threshold. Purely diagnostic; nothing is cleared.
func (ld *LeakDetector) CheckForLeaks() {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	for tag, count := range ld.counts {
		if count > leakThreshold {
			ld.log.Warn("possible object leak",
				"tag", tag,
				"live_count", count,
			)
		}
	}
}

// StartLeakDetection runs CheckForLeaks on a periodic timer. Starting
// while already running replaces the previous timer; at most one is
// ever active per detector.
func (ld *LeakDetector) StartLeakDetection(interval time.Duration) {
	ld.StopLeakDetection()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	ld.mu.Lock()
	ld.cancel = cancel
	ld.stopped = stopped
	ld.mu.Unlock()

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ld.CheckForLeaks()
			}
		}
	}()
}

// StopLeakDetection cancels the periodic timer if one is running.
func (ld *LeakDetector) StopLeakDetection() {
	ld.mu.Lock()
	cancel := ld.cancel
	stopped := ld.stopped
	ld.cancel = nil
	ld.stopped = nil
	ld.mu.Unlock()

	if cancel != nil {
		cancel()
		<-stopped
	}
}

// TrackingStatus returns a snapshot of tag → live count.
func (ld *LeakDetector) TrackingStatus() map[string]int {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	out := make(map[string]int, len(ld.counts))
	for tag, count := range ld.counts {
		out[tag] = count
	}
	return out
}
