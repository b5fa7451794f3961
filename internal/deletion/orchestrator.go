package deletion

import (
	"context"
	"errors"
	"sync"

	"github.com/buildlog/estimator/internal/diag"
)

// ErrDeleteFailed is raised when the delete operation resolves false
// without an error: the backend reported nothing was deleted.
var ErrDeleteFailed = errors.New("delete failed")

// Config controls orchestrator behavior.
type Config struct {
	OptimisticUpdates bool
	Retries           bool
	Retry             RetryConfig
}

// DefaultConfig enables optimistic updates and retries.
var DefaultConfig = Config{
	OptimisticUpdates: true,
	Retries:           true,
	Retry:             DefaultRetryConfig,
}

// SuccessFunc is invoked exactly once per successful ExecuteDelete.
type SuccessFunc[T Entity] func(id string, snapshot T)

// ErrorFunc is invoked exactly once per failed ExecuteDelete.
type ErrorFunc[T Entity] func(id string, err error, guidance Guidance)

// Orchestrator sequences the delete subsystem: optimistic removal,
// retried execution, rollback, statistics, and instrumentation. All
// collaborators are injected so lifecycle follows the owning service
// rather than package load.
type Orchestrator[T Entity] struct {
	cfg        Config
	op         Operation
	optimistic *OptimisticManager[T]
	stats      *StatsCollector
	perf       *diag.PerformanceMonitor
	leaks      *diag.LeakDetector
	onSuccess  SuccessFunc[T]
	onError    ErrorFunc[T]

	mu       sync.Mutex
	deleting map[string]bool
	errors   map[string]Guidance
}

// NewOrchestrator wires an orchestrator around the injected delete
// operation and instrumentation.
func NewOrchestrator[T Entity](
	cfg Config,
	op Operation,
	perf *diag.PerformanceMonitor,
	leaks *diag.LeakDetector,
) *Orchestrator[T] {
	return &Orchestrator[T]{
		cfg:        cfg,
		op:         op,
		optimistic: NewOptimisticManager[T](),
		stats:      NewStatsCollector(),
		perf:       perf,
		leaks:      leaks,
		deleting:   make(map[string]bool),
		errors:     make(map[string]Guidance),
	}
}

// OnSuccess sets the success callback.
func (o *Orchestrator[T]) OnSuccess(fn SuccessFunc[T]) { o.onSuccess = fn }

// OnError sets the error callback.
func (o *Orchestrator[T]) OnError(fn ErrorFunc[T]) { o.onError = fn }

// ExecuteDelete runs one delete end to end and reports whether it
// succeeded. The snapshot is removed from caller state immediately when
// optimistic updates are enabled, and restored if the delete ultimately
// fails. A second call for an id that is still deleting is refused;
// callers disable the triggering control while IsDeleting is true, and
// this is the backstop.
func (o *Orchestrator[T]) ExecuteDelete(ctx context.Context, id string, snapshot T, update UpdateFunc[T]) bool {
	var zero T
	hasSnapshot := snapshot != zero

	o.mu.Lock()
	if o.deleting[id] {
		o.mu.Unlock()
		return false
	}
	o.deleting[id] = true
	delete(o.errors, id)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.deleting, id)
		o.mu.Unlock()
	}()

	opID := o.perf.StartOperation("delete-" + id)
	defer o.perf.EndOperation(opID)

	if hasSnapshot {
		o.leaks.Track(snapshot, "EntitySnapshot")
		defer o.leaks.Untrack(snapshot)
	}

	start := o.stats.Start()

	optimistic := o.cfg.OptimisticUpdates && hasSnapshot && update != nil
	if optimistic {
		o.optimistic.Delete(id, snapshot, update)
	}

	var result bool
	var err error
	if o.cfg.Retries {
		result, err = ExecuteWithRetry(ctx, o.op, id, o.cfg.Retry)
	} else {
		result, err = o.op(ctx, id)
	}
	if err == nil && !result {
		err = ErrDeleteFailed
	}

	if err != nil {
		if optimistic {
			o.optimistic.Rollback(id)
		}
		label := ""
		if hasSnapshot {
			label = snapshot.EntityLabel()
		}
		guidance := Resolve(err, label)
		o.mu.Lock()
		o.errors[id] = guidance
		o.mu.Unlock()
		o.stats.RecordFailure(start, err)
		if o.onError != nil {
			o.onError(id, err, guidance)
		}
		return false
	}

	o.optimistic.Confirm(id)
	o.stats.RecordSuccess(start)
	if o.onSuccess != nil {
		o.onSuccess(id, snapshot)
	}
	return true
}

// IsDeleting reports whether a delete for id is in flight.
func (o *Orchestrator[T]) IsDeleting(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.deleting[id]
}

// Error returns the guidance for id's last failed delete, if any.
func (o *Orchestrator[T]) Error(id string) (Guidance, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	g, ok := o.errors[id]
	return g, ok
}

// ClearError discards the stored error for id.
func (o *Orchestrator[T]) ClearError(id string) {
	o.mu.Lock()
	delete(o.errors, id)
	o.mu.Unlock()
}

// ClearErrors discards every stored error.
func (o *Orchestrator[T]) ClearErrors() {
	o.mu.Lock()
	o.errors = make(map[string]Guidance)
	o.mu.Unlock()
}

// Stats returns a snapshot of delete statistics.
func (o *Orchestrator[T]) Stats() Stats {
	return o.stats.Stats()
}

// ResetStats zeroes delete statistics.
func (o *Orchestrator[T]) ResetStats() {
	o.stats.Reset()
}

// Close abandons pending optimistic deletes without rollback. Used on
// teardown.
func (o *Orchestrator[T]) Close() {
	o.optimistic.Clear()
}
