// Package job triggers recurring source crawls on their configured
// daily times.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// RunFunc crawls one source end to end.
type RunFunc func(ctx context.Context, src sources.Config) error

// Entry describes one registered trigger.
type Entry struct {
	// Source is the source name.
	Source string
	// Spec is the five-field cron expression derived from the source's
	// schedule time.
	Spec string
	// Next is when the trigger fires next.
	Next time.Time
}

type entryMeta struct {
	source   string
	spec     string
	schedule cron.Schedule
}

// Scheduler fires source crawls on cron triggers derived from each
// source's daily schedule times. One trigger per configured time; a
// trigger that fires while the source's previous crawl is still running
// is skipped.
type Scheduler struct {
	logger logger.Interface
	run    RunFunc
	cron   *cron.Cron
	parser cron.Parser

	mu      sync.Mutex
	meta    map[cron.EntryID]entryMeta
	running map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler that invokes run on every trigger.
func NewScheduler(run RunFunc, log logger.Interface) (*Scheduler, error) {
	if run == nil {
		return nil, errors.New("run function cannot be nil")
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	// Standard 5-field cron (minute hour day month weekday).
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		logger:  log,
		run:     run,
		cron:    cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		parser:  parser,
		meta:    make(map[cron.EntryID]entryMeta),
		running: make(map[string]bool),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Schedule registers one trigger per schedule time carried by the
// source. Times are daily clock values ("06:00"); each converts to a
// five-field cron expression.
func (s *Scheduler) Schedule(src sources.Config) error {
	if src.Name == "" {
		return errors.New("source name cannot be empty")
	}
	if len(src.Time) == 0 {
		return fmt.Errorf("source %s has no schedule times", src.Name)
	}

	for _, clock := range src.Time {
		spec, err := cronSpec(clock)
		if err != nil {
			return fmt.Errorf("source %s: %w", src.Name, err)
		}

		schedule, err := s.parser.Parse(spec)
		if err != nil {
			return fmt.Errorf("failed to parse cron expression: %w", err)
		}

		id, err := s.cron.AddFunc(spec, func() {
			s.RunNow(src)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule source %s: %w", src.Name, err)
		}

		s.mu.Lock()
		s.meta[id] = entryMeta{source: src.Name, spec: spec, schedule: schedule}
		s.mu.Unlock()

		s.logger.Info("Scheduled source crawl",
			"source", src.Name,
			"spec", spec,
			"next_run", schedule.Next(time.Now()).Format("2006-01-02 15:04:05"))
	}
	return nil
}

// RunNow crawls the source in the caller's goroutine, skipping when the
// source's previous crawl is still running. Cron triggers go through
// this same path.
func (s *Scheduler) RunNow(src sources.Config) {
	s.mu.Lock()
	if s.running[src.Name] {
		s.mu.Unlock()
		s.logger.Warn("Previous crawl still running, skipping trigger",
			"source", src.Name)
		return
	}
	s.running[src.Name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, src.Name)
		s.mu.Unlock()
	}()

	s.logger.Info("Triggered crawl starting", "source", src.Name)
	start := time.Now()

	if err := s.run(s.ctx, src); err != nil {
		s.logger.Error("Triggered crawl failed",
			"source", src.Name,
			"duration", time.Since(start),
			"error", err)
		return
	}

	s.logger.Info("Triggered crawl finished",
		"source", src.Name, "duration", time.Since(start))
}

// Start begins firing triggers.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "entries", len(s.cron.Entries()))
}

// Stop cancels in-flight crawls and waits for triggered jobs to return,
// bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scheduler")
	s.cancel()

	cronCtx := s.cron.Stop()
	select {
	case <-cronCtx.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Entries returns the registered triggers ordered by next run time.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	cronEntries := s.cron.Entries()
	entries := make([]Entry, 0, len(cronEntries))
	for _, e := range cronEntries {
		m, ok := s.meta[e.ID]
		if !ok {
			continue
		}
		next := e.Next
		if next.IsZero() {
			next = m.schedule.Next(time.Now())
		}
		entries = append(entries, Entry{Source: m.source, Spec: m.spec, Next: next})
	}
	return entries
}

// cronSpec converts a daily "15:04" clock time into a five-field cron
// expression.
func cronSpec(clock string) (string, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("invalid schedule time %q: %w", clock, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
