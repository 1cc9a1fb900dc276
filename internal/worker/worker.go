package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// State represents the current state of a worker.
type State int32

const (
	// StateIdle means the worker is waiting for a source.
	StateIdle State = iota

	// StateBusy means the worker is crawling a source.
	StateBusy

	// percentageMultiplier converts ratio to percentage.
	percentageMultiplier = 100
)

// String returns the string representation of a worker state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// SourceHandler crawls one source end to end.
type SourceHandler func(ctx context.Context, src sources.Config) error

// Worker crawls sources handed to it by the pool, one at a time.
type Worker struct {
	id            int
	handler       SourceHandler
	sourceTimeout time.Duration
	logger        logger.Interface

	state atomic.Int32

	// Stats
	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	lastError atomic.Value
}

// NewWorker creates a new worker.
func NewWorker(id int, handler SourceHandler, sourceTimeout time.Duration, log logger.Interface) *Worker {
	w := &Worker{
		id:            id,
		handler:       handler,
		sourceTimeout: sourceTimeout,
		logger:        log,
	}
	w.state.Store(int32(StateIdle))
	return w
}

// ID returns the worker ID.
func (w *Worker) ID() int {
	return w.id
}

// State returns the current worker state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Process crawls one source under the worker's timeout.
func (w *Worker) Process(ctx context.Context, src sources.Config) error {
	if !w.state.CompareAndSwap(int32(StateIdle), int32(StateBusy)) {
		return fmt.Errorf("worker %d: not idle, current state: %s", w.id, w.State())
	}
	defer w.state.Store(int32(StateIdle))

	srcCtx := ctx
	if w.sourceTimeout > 0 {
		var cancel context.CancelFunc
		srcCtx, cancel = context.WithTimeout(ctx, w.sourceTimeout)
		defer cancel()
	}

	w.logger.Info("Worker crawling source",
		"worker_id", w.id, "source", src.Name)

	start := time.Now()
	err := w.handler(srcCtx, src)
	duration := time.Since(start)

	w.processed.Add(1)

	if err != nil {
		w.failed.Add(1)
		w.lastError.Store(err)
		w.logger.Error("Worker source failed",
			"worker_id", w.id,
			"source", src.Name,
			"duration", duration,
			"error", err)
		return fmt.Errorf("worker %d: source %s failed: %w", w.id, src.Name, err)
	}

	w.succeeded.Add(1)
	w.logger.Info("Worker source completed",
		"worker_id", w.id, "source", src.Name, "duration", duration)

	return nil
}

// Stats returns the worker's statistics.
func (w *Worker) Stats() WorkerStats {
	var lastErr error
	if v := w.lastError.Load(); v != nil {
		lastErr, _ = v.(error)
	}

	return WorkerStats{
		ID:               w.id,
		State:            w.State(),
		SourcesProcessed: w.processed.Load(),
		SourcesSucceeded: w.succeeded.Load(),
		SourcesFailed:    w.failed.Load(),
		LastError:        lastErr,
	}
}

// WorkerStats holds statistics for a worker.
type WorkerStats struct {
	ID               int
	State            State
	SourcesProcessed int64
	SourcesSucceeded int64
	SourcesFailed    int64
	LastError        error
}

// SuccessRate returns the success rate as a percentage.
func (s WorkerStats) SuccessRate() float64 {
	if s.SourcesProcessed == 0 {
		return 0
	}
	return float64(s.SourcesSucceeded) / float64(s.SourcesProcessed) * percentageMultiplier
}
