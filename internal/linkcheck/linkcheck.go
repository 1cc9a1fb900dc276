// Package linkcheck audits collected link sets for HTTP reachability
// before extraction runs on them.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/zcrawl/zcrawl/internal/logger"
)

const (
	// DefaultParallelism is the default number of concurrent checks.
	DefaultParallelism = 2
	// DefaultDelay is the default pause between requests to one domain.
	DefaultDelay = 500 * time.Millisecond
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	originKey = "origin"
)

// Config tunes the audit's politeness and identity.
type Config struct {
	// UserAgent is sent with every request. Empty keeps colly's default.
	UserAgent string
	// Timeout bounds a single request.
	Timeout time.Duration
	// Delay is the fixed pause between requests to one domain.
	Delay time.Duration
	// RandomDelay adds jitter on top of Delay.
	RandomDelay time.Duration
	// Parallelism caps concurrent requests.
	Parallelism int
}

// Result is the audit outcome for one link.
type Result struct {
	// URL is the link as it appeared in the input set.
	URL string
	// StatusCode is the terminal HTTP status, zero when the request
	// never completed.
	StatusCode int
	// Err is the transport-level failure, nil for completed requests.
	Err error
	// OK reports whether the link answered with a 2xx status.
	OK bool
}

// Report summarizes one audit. Results preserve input order with
// duplicates collapsed onto their first occurrence.
type Report struct {
	Results []Result
	Healthy int
	Broken  int
}

// BrokenLinks returns the results that did not answer with a 2xx status.
func (r *Report) BrokenLinks() []Result {
	var broken []Result
	for _, res := range r.Results {
		if !res.OK {
			broken = append(broken, res)
		}
	}
	return broken
}

// Checker audits link sets over plain HTTP.
type Checker struct {
	cfg    Config
	logger logger.Interface
}

// New creates a Checker. Zero-valued config fields fall back to the
// defaults.
func New(cfg Config, log logger.Interface) *Checker {
	if log == nil {
		log = logger.NewNoOp()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	return &Checker{cfg: cfg, logger: log}
}

// Check fetches every link and reports its terminal status. Requests run
// concurrently under the configured limit rule; redirects are followed
// and the terminal status is recorded against the original link. A
// cancelled context fails the in-flight requests and is returned
// alongside the partial report.
func (c *Checker) Check(ctx context.Context, urls []string) (*Report, error) {
	collector, err := c.newCollector(ctx)
	if err != nil {
		return nil, err
	}

	results := make(map[string]Result, len(urls))
	var mu sync.Mutex
	record := func(res Result) {
		mu.Lock()
		results[res.URL] = res
		mu.Unlock()
	}

	collector.OnResponse(func(r *colly.Response) {
		origin := r.Request.Ctx.Get(originKey)
		if origin == "" {
			origin = r.Request.URL.String()
		}
		record(Result{
			URL:        origin,
			StatusCode: r.StatusCode,
			OK:         r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices,
		})
	})

	collector.OnError(func(r *colly.Response, reqErr error) {
		origin := r.Request.Ctx.Get(originKey)
		if origin == "" {
			origin = r.Request.URL.String()
		}
		record(Result{URL: origin, StatusCode: r.StatusCode, Err: reqErr})
	})

	c.logger.Info("Verifying links", "count", len(urls))

	for _, url := range urls {
		reqCtx := colly.NewContext()
		reqCtx.Put(originKey, url)
		if visitErr := collector.Request(http.MethodGet, url, nil, reqCtx, nil); visitErr != nil {
			if errors.Is(visitErr, colly.ErrAlreadyVisited) {
				c.logger.Debug("Skipping duplicate link", "url", url)
				continue
			}
			record(Result{URL: url, Err: visitErr})
		}
	}

	collector.Wait()

	report := c.assemble(urls, results)

	c.logger.Info("Link verification finished",
		"checked", len(report.Results),
		"healthy", report.Healthy,
		"broken", report.Broken)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, ctxErr
	}
	return report, nil
}

// newCollector builds the audit collector with the configured politeness
// settings.
func (c *Checker) newCollector(ctx context.Context) (*colly.Collector, error) {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.Async(true),
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
	}
	if c.cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(c.cfg.UserAgent))
	}

	collector := colly.NewCollector(opts...)
	collector.SetRequestTimeout(c.cfg.Timeout)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       c.cfg.Delay,
		RandomDelay: c.cfg.RandomDelay,
		Parallelism: c.cfg.Parallelism,
	}); err != nil {
		return nil, fmt.Errorf("failed to set rate limit: %w", err)
	}
	return collector, nil
}

// assemble orders the recorded results by input position, collapsing
// duplicate input links onto their first occurrence.
func (c *Checker) assemble(urls []string, results map[string]Result) *Report {
	report := &Report{}
	seen := make(map[string]bool, len(urls))
	for _, url := range urls {
		if seen[url] {
			continue
		}
		seen[url] = true

		res, ok := results[url]
		if !ok {
			continue
		}
		if res.OK {
			report.Healthy++
		} else {
			report.Broken++
			c.logger.Warn("Broken link",
				"url", res.URL, "status", res.StatusCode, "error", res.Err)
		}
		report.Results = append(report.Results, res)
	}
	return report
}
