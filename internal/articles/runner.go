package articles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zcrawl/zcrawl/internal/browser"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/retry"
	"github.com/zcrawl/zcrawl/internal/storage"
)

// ItemState is the terminal outcome of one link in a batch.
type ItemState string

// Terminal item states.
const (
	// StateDone means the article was extracted, validated, and persisted.
	StateDone ItemState = "done"
	// StateFailed means the item exhausted its attempts or failed a
	// content check. Failures never abort the batch.
	StateFailed ItemState = "failed"
	// StateSkipped means a resumed run had already processed the item.
	StateSkipped ItemState = "skipped"
)

// ItemResult records the terminal outcome of one link.
type ItemResult struct {
	// URL is the link the item was built from.
	URL string
	// Article is the extracted record, set only on success.
	Article *domain.Article
	// Path is where the record was written, set only on success.
	Path string
	// Err is the terminal error, set only on failure.
	Err error
	// Attempts counts navigations performed for this item.
	Attempts int
	// State is the item's terminal state.
	State ItemState
}

// RunStats summarizes a batch run. Every input link in the window has
// exactly one terminal outcome in Results.
type RunStats struct {
	// Attempted counts links the runner actually processed.
	Attempted int
	// Extracted counts successfully persisted articles.
	Extracted int
	// Failed counts links whose extraction terminally failed.
	Failed int
	// Skipped counts links bypassed because a resumed run had already
	// processed them.
	Skipped int
	// Results holds the per-link outcomes in input order.
	Results []ItemResult
}

// Config carries the batch settings for a Runner.
type Config struct {
	// Category names the source, keying progress rows and output dirs.
	Category string
	// RunID identifies this run in progress rows. Empty generates one.
	RunID string
	// TargetYear is recorded on progress rows. Zero means no filter.
	TargetYear int
	// RateLimit is the minimum spacing between article navigations.
	// Zero disables rate limiting.
	RateLimit time.Duration
	// WaitTimeout bounds the wait for the article title to render.
	WaitTimeout time.Duration
	// FirstIndex is the file number given to the first article saved by
	// this run.
	FirstIndex int
	// ImageScroll coaxes lazy-loaded images before extraction. A zero
	// count disables the pass.
	ImageScroll crawlerconfig.ImageScrollConfig
	// Retry bounds per-item attempts on transient failures.
	Retry crawlerconfig.RetryConfig
}

// Runner drives the per-article state machine over a discovered link list:
// Navigate, await the page, extract, validate, persist. Transient failures
// retry with backoff; content failures skip the item; only session loss
// aborts the batch. A Runner owns one browser session and is not safe for
// concurrent use.
type Runner struct {
	session   browser.Session
	extractor *Extractor
	writer    storage.ArticleWriter
	progress  storage.ProgressStore
	limiter   *rate.Limiter
	logger    logger.Interface
	cfg       Config
}

// NewRunner creates a Runner. The progress store may be nil, which disables
// resume tracking. Zero-valued config fields fall back to the defaults.
func NewRunner(
	session browser.Session,
	extractor *Extractor,
	writer storage.ArticleWriter,
	progress storage.ProgressStore,
	cfg Config,
	log logger.Interface,
) *Runner {
	if log == nil {
		log = logger.NewNoOp()
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.New().String()
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = crawlerconfig.DefaultWaitTimeout
	}
	if cfg.FirstIndex < 0 {
		cfg.FirstIndex = 0
	}
	if cfg.ImageScroll.Count < 0 {
		cfg.ImageScroll.Count = 0
	}
	if cfg.ImageScroll.Count > 0 && cfg.ImageScroll.Amount <= 0 {
		cfg.ImageScroll.Amount = crawlerconfig.DefaultScrollAmount
	}
	if cfg.Retry.MaxRetries <= 0 {
		cfg.Retry.MaxRetries = crawlerconfig.DefaultMaxRetries
	}
	if cfg.Retry.Delay <= 0 {
		cfg.Retry.Delay = crawlerconfig.DefaultRetryDelay
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = crawlerconfig.DefaultRetryMaxDelay
	}
	if cfg.Retry.Multiplier <= 0 {
		cfg.Retry.Multiplier = crawlerconfig.DefaultRetryMultiplier
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RateLimit), 1)
	}

	return &Runner{
		session:   session,
		extractor: extractor,
		writer:    writer,
		progress:  progress,
		limiter:   limiter,
		logger:    log,
		cfg:       cfg,
	}
}

// Run processes links[startOffset : startOffset+maxItems] strictly in
// order. maxItems of zero means no cap. The cursor advances and is
// persisted after every item regardless of outcome, so an interrupted run
// resumes past already-attempted links. Per-item failures never abort the
// batch; only session loss does, returning the stats gathered so far
// alongside the error.
func (r *Runner) Run(ctx context.Context, links []string, startOffset, maxItems int) (*RunStats, error) {
	if startOffset < 0 {
		return nil, errors.New("start offset must be non-negative")
	}
	if maxItems < 0 {
		return nil, errors.New("max items must be non-negative")
	}

	end := len(links)
	if maxItems > 0 && startOffset+maxItems < end {
		end = startOffset + maxItems
	}

	prog, err := r.loadProgress(ctx, maxItems)
	if err != nil {
		return nil, err
	}

	stats := &RunStats{}
	fileIndex := r.cfg.FirstIndex

	r.logger.Info("Starting article extraction",
		"category", r.cfg.Category,
		"run_id", r.cfg.RunID,
		"links", len(links),
		"start", startOffset,
		"end", end)

	for i := startOffset; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		url := links[i]

		if prog != nil && (i < prog.Cursor || prog.Seen(url)) {
			stats.Skipped++
			stats.Results = append(stats.Results, ItemResult{URL: url, State: StateSkipped})
			r.logger.Debug("Skipping already-processed link", "url", url, "index", i)
			continue
		}

		item := r.processItem(ctx, url, fileIndex)
		stats.Attempted++

		if item.State == StateDone {
			stats.Extracted++
			fileIndex++
			r.logger.Info("Successfully crawled",
				"category", r.cfg.Category,
				"title", item.Article.Title,
				"path", item.Path,
				"attempts", item.Attempts)
		} else {
			stats.Failed++
			r.logger.Warn("Article failed",
				"category", r.cfg.Category,
				"url", url,
				"attempts", item.Attempts,
				"error", item.Err)
		}
		stats.Results = append(stats.Results, item)

		if prog != nil {
			prog.MarkProcessed(i, url)
			if upsertErr := r.progress.Upsert(ctx, prog); upsertErr != nil {
				r.logger.Error("Failed to persist progress",
					"category", r.cfg.Category, "error", upsertErr)
			}
		}

		if errors.Is(item.Err, browser.ErrSessionLost) {
			return stats, fmt.Errorf("failed to continue batch: %w", item.Err)
		}
	}

	r.logger.Info("Article extraction finished",
		"category", r.cfg.Category,
		"attempted", stats.Attempted,
		"extracted", stats.Extracted,
		"failed", stats.Failed,
		"skipped", stats.Skipped)

	return stats, nil
}

// loadProgress fetches the category's progress row, creating a fresh one
// when none exists. A nil progress store disables tracking entirely.
func (r *Runner) loadProgress(ctx context.Context, maxItems int) (*domain.CrawlProgress, error) {
	if r.progress == nil {
		return nil, nil
	}

	prog, err := r.progress.Get(ctx, r.cfg.Category)
	if errors.Is(err, storage.ErrNotFound) {
		prog = &domain.CrawlProgress{Category: r.cfg.Category}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load progress for %s: %w", r.cfg.Category, err)
	}

	prog.RunID = r.cfg.RunID
	prog.MaxItems = maxItems
	prog.TargetYear = nil
	if r.cfg.TargetYear > 0 {
		year := r.cfg.TargetYear
		prog.TargetYear = &year
	}
	return prog, nil
}

// processItem runs one link through the state machine and returns its
// terminal outcome. Transient navigation and load failures retry with
// backoff; content failures and session loss do not.
func (r *Runner) processItem(ctx context.Context, url string, fileIndex int) ItemResult {
	item := ItemResult{URL: url, State: StateFailed}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			item.Err = err
			return item
		}
	}

	var article *domain.Article
	retryCfg := retry.Config{
		MaxAttempts:  r.cfg.Retry.MaxRetries,
		InitialDelay: r.cfg.Retry.Delay,
		MaxDelay:     r.cfg.Retry.MaxDelay,
		Multiplier:   r.cfg.Retry.Multiplier,
		IsRetryable:  isTransient,
	}

	err := retry.Retry(ctx, retryCfg, func() error {
		item.Attempts++
		extracted, attemptErr := r.attempt(ctx, url)
		if attemptErr != nil {
			return attemptErr
		}
		article = extracted
		return nil
	})
	if err != nil {
		item.Err = err
		return item
	}

	path, err := r.writer.Save(article, fileIndex)
	if err != nil {
		item.Err = fmt.Errorf("failed to save article: %w", err)
		return item
	}

	item.Article = article
	item.Path = path
	item.State = StateDone
	return item
}

// attempt performs one navigate-extract-validate pass for url.
func (r *Runner) attempt(ctx context.Context, url string) (*domain.Article, error) {
	if err := r.session.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open article page: %w", err)
	}

	titleSel := r.extractor.selectors.Title
	visible, err := r.session.WaitVisible(ctx, titleSel, r.cfg.WaitTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for article page: %w", err)
	}
	if !visible {
		return nil, fmt.Errorf("article title %q never appeared on %s: %w",
			titleSel, url, browser.ErrWaitTimeout)
	}

	if err := r.coaxImages(ctx); err != nil {
		return nil, err
	}

	html, err := r.session.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot article page: %w", err)
	}

	article, err := r.extractor.Extract(html, url)
	if err != nil {
		return nil, err
	}

	if err := Validate(article, url); err != nil {
		return nil, err
	}

	return article, nil
}

// coaxImages issues the configured small scroll steps so lazy-loaded images
// populate their src attributes before the snapshot is taken.
func (r *Runner) coaxImages(ctx context.Context) error {
	for i := 0; i < r.cfg.ImageScroll.Count; i++ {
		if err := r.session.ScrollBy(ctx, r.cfg.ImageScroll.Amount); err != nil {
			return fmt.Errorf("failed to scroll article page: %w", err)
		}
		if err := r.session.Sleep(ctx, r.cfg.ImageScroll.Pause); err != nil {
			return err
		}
	}
	return nil
}

// isTransient reports whether an attempt failure is worth another
// navigation. Content failures and session loss are terminal.
func isTransient(err error) bool {
	return errors.Is(err, browser.ErrNavigation) || errors.Is(err, browser.ErrWaitTimeout)
}
