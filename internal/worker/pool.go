package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// OutcomeState is the terminal state of one source in a pool run.
type OutcomeState string

// Terminal source states.
const (
	// OutcomeDone means the source crawled cleanly.
	OutcomeDone OutcomeState = "done"
	// OutcomeFailed means the source's crawl returned an error.
	OutcomeFailed OutcomeState = "failed"
	// OutcomeAborted means the run was cancelled before the source was
	// dispatched.
	OutcomeAborted OutcomeState = "aborted"
)

// Outcome records the terminal result of one source.
type Outcome struct {
	// Source is the source name.
	Source string
	// Err is the crawl error, set for failed and aborted sources.
	Err error
	// Duration is how long the crawl ran.
	Duration time.Duration
	// State is the source's terminal state.
	State OutcomeState
}

// Summary aggregates one pool run. Results preserve the input source
// order.
type Summary struct {
	Results   []Outcome
	Succeeded int
	Failed    int
	Aborted   int
}

// Failures returns the outcomes that did not complete cleanly.
func (s *Summary) Failures() []Outcome {
	var failures []Outcome
	for _, o := range s.Results {
		if o.State != OutcomeDone {
			failures = append(failures, o)
		}
	}
	return failures
}

// Pool fans a source list out over a bounded set of workers. Each worker
// crawls one source at a time; cross-source concurrency is the only
// concurrency, so per-source pipelines stay lock-free.
type Pool struct {
	config  Config
	handler SourceHandler
	logger  logger.Interface
	workers []*Worker
}

// NewPool creates a new worker pool.
func NewPool(cfg Config, handler SourceHandler, log logger.Interface) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	p := &Pool{
		config:  cfg,
		handler: handler,
		logger:  log,
		workers: make([]*Worker, cfg.Workers),
	}
	for i := range cfg.Workers {
		p.workers[i] = NewWorker(i, handler, cfg.SourceTimeout, log)
	}
	return p, nil
}

// Size returns the pool size.
func (p *Pool) Size() int {
	return p.config.Workers
}

// Run crawls every source and returns when all are done or the context
// is cancelled. Sources dispatch in order; each lands on the first free
// worker. Cancellation stops dispatching and marks the remaining sources
// aborted, while already-dispatched sources observe it through their
// own contexts. Per-source failures never stop the run.
func (p *Pool) Run(ctx context.Context, srcs []sources.Config) *Summary {
	summary := &Summary{Results: make([]Outcome, len(srcs))}
	if len(srcs) == 0 {
		return summary
	}

	p.logger.Info("Worker pool starting",
		"workers", p.Size(), "sources", len(srcs))

	jobs := make(chan int)
	var wg sync.WaitGroup

	active := p.Size()
	if active > len(srcs) {
		active = len(srcs)
	}
	for i := range active {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				err := w.Process(ctx, srcs[idx])
				outcome := Outcome{
					Source:   srcs[idx].Name,
					Duration: time.Since(start),
					State:    OutcomeDone,
				}
				if err != nil {
					outcome.Err = err
					outcome.State = OutcomeFailed
				}
				summary.Results[idx] = outcome
			}
		}(p.workers[i])
	}

dispatch:
	for i := range srcs {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i, res := range summary.Results {
		switch res.State {
		case OutcomeDone:
			summary.Succeeded++
		case OutcomeFailed:
			summary.Failed++
		default:
			summary.Results[i] = Outcome{
				Source: srcs[i].Name,
				Err:    ctx.Err(),
				State:  OutcomeAborted,
			}
			summary.Aborted++
		}
	}

	p.logger.Info("Worker pool finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"aborted", summary.Aborted)
	for _, w := range p.workers {
		stats := w.Stats()
		p.logger.Debug("Worker totals",
			"worker_id", stats.ID,
			"processed", stats.SourcesProcessed,
			"succeeded", stats.SourcesSucceeded,
			"failed", stats.SourcesFailed)
	}

	return summary
}
