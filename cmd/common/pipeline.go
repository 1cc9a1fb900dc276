package common

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/zcrawl/zcrawl/internal/articles"
	"github.com/zcrawl/zcrawl/internal/browser"
	"github.com/zcrawl/zcrawl/internal/collector"
	"github.com/zcrawl/zcrawl/internal/config"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/internal/sources"
	"github.com/zcrawl/zcrawl/internal/storage"
)

// Pipeline wires the discovery and extraction engines for one source at a
// time and owns the shared output conventions: link file naming, per-category
// article directories, and the progress store. The progress database is
// opened on first use and shared across sources, so concurrent extractions
// serialize their progress writes through one connection.
type Pipeline struct {
	deps CommandDeps

	progressOnce sync.Once
	progressErr  error
	progress     *ProgressHandle
}

// NewPipeline creates a Pipeline on the given dependencies.
func NewPipeline(deps CommandDeps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Close releases the progress database if it was opened.
func (p *Pipeline) Close() error {
	if p.progress == nil {
		return nil
	}
	return p.progress.Close()
}

// LinksPath returns the link file path written for the named source:
// <name>_links.txt under the configured links directory.
func LinksPath(cfg config.Interface, name string) string {
	return filepath.Join(cfg.GetStorageConfig().LinksDir, name+"_links.txt")
}

// LinksPath returns the link file path written for the named source.
func (p *Pipeline) LinksPath(name string) string {
	return LinksPath(p.deps.Config, name)
}

// NewSession opens a browser session per the browser config. noHeadless
// forces a visible window for debugging.
func (p *Pipeline) NewSession(userAgent string, noHeadless bool) (browser.Session, error) {
	bcfg := *p.deps.Config.GetBrowserConfig()
	if noHeadless {
		bcfg.Headless = false
	}
	session, err := browser.NewChromeSession(&bcfg, userAgent, p.deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	return session, nil
}

// DiscoverOptions adjusts one discovery run.
type DiscoverOptions struct {
	// OutputPath overrides the default link file location.
	OutputPath string
	// Append adds to an existing link file instead of truncating it.
	Append bool
	// NoHeadless runs the browser with a visible window.
	NoHeadless bool
}

// DiscoverResult reports one source's discovery outcome.
type DiscoverResult struct {
	Source      string
	LinksPath   string
	Links       []string
	Termination collector.TerminationReason
	Scrolls     int
	Candidates  int
	Skipped     int
}

// Discover runs link discovery for the source and writes the link file.
// Links gathered before a mid-run failure are still persisted.
func (p *Pipeline) Discover(ctx context.Context, src sources.Config, opts DiscoverOptions) (*DiscoverResult, error) {
	log := p.deps.Logger

	method := p.method(src)
	var session browser.Session
	if method != crawlerconfig.MethodFeed {
		s, err := p.NewSession(p.userAgent(src), opts.NoHeadless)
		if err != nil {
			return nil, err
		}
		session = s
		defer session.Close()
	}

	req := collector.Request{
		URL:         src.URL,
		FeedURL:     src.FeedURL,
		Category:    src.Name,
		Method:      method,
		TargetYear:  src.TargetYear,
		MaxLinks:    p.maxLinks(src),
		Selectors:   src.Selectors,
		Scroll:      p.deps.Config.GetCrawlerConfig().Scroll,
		WaitTimeout: p.deps.Config.GetCrawlerConfig().WaitTimeout,
		UserAgent:   p.userAgent(src),
	}

	res, collectErr := collector.New(session, log).Collect(ctx, req)

	path := opts.OutputPath
	if path == "" {
		path = p.LinksPath(src.Name)
	}

	out := &DiscoverResult{Source: src.Name, LinksPath: path}
	if res != nil {
		out.Links = res.Links.URLs()
		out.Termination = res.Termination
		out.Scrolls = res.Scrolls
		out.Candidates = res.Candidates
		out.Skipped = res.Skipped
	}

	if len(out.Links) > 0 {
		if writeErr := p.writeLinks(path, out.Links, opts.Append); writeErr != nil {
			if collectErr == nil {
				return out, writeErr
			}
			log.Error("Failed to persist partial links",
				"source", src.Name,
				"path", path,
				"error", writeErr)
		}
	}

	if collectErr != nil {
		return out, fmt.Errorf("discover %s: %w", src.Name, collectErr)
	}

	log.Info("Discovery complete",
		"source", src.Name,
		"links", len(out.Links),
		"termination", string(out.Termination),
		"path", path)
	return out, nil
}

// writeLinks persists the URLs to path, truncating unless appending.
func (p *Pipeline) writeLinks(path string, urls []string, appendTo bool) error {
	file, err := storage.NewLinkFile(path, !appendTo)
	if err != nil {
		return err
	}
	for _, url := range urls {
		if err := file.Write(url); err != nil {
			file.Close()
			return err
		}
	}
	return file.Close()
}

// ExtractOptions adjusts one extraction run.
type ExtractOptions struct {
	// Start is the offset into the link list and the first file number.
	Start int
	// Max caps how many links this run processes. Zero falls back to the
	// source's limit, then the crawler config's.
	Max int
	// Fresh deletes stored progress for the category before running.
	Fresh bool
	// NoHeadless runs the browser with a visible window.
	NoHeadless bool
}

// ExtractResult reports one source's extraction outcome.
type ExtractResult struct {
	Source string
	Dir    string
	Stats  *articles.RunStats
}

// Extract runs article extraction over links for the source. Output files
// continue the numbering already present in the category directory unless
// Fresh restarts it at the start offset.
func (p *Pipeline) Extract(ctx context.Context, src sources.Config, links []string, opts ExtractOptions) (*ExtractResult, error) {
	ccfg := p.deps.Config.GetCrawlerConfig()
	log := p.deps.Logger

	store, err := p.progressStore()
	if err != nil {
		return nil, err
	}
	if opts.Fresh {
		if err := store.Delete(ctx, src.Name); err != nil {
			return nil, fmt.Errorf("reset progress for %s: %w", src.Name, err)
		}
	}

	writer, err := storage.NewFileArticleWriter(p.deps.Config.GetStorageConfig().ArticlesDir, src.Name)
	if err != nil {
		return nil, err
	}

	firstIndex := opts.Start
	if !opts.Fresh {
		next, nextErr := writer.NextIndex()
		if nextErr != nil {
			return nil, nextErr
		}
		if next > firstIndex {
			firstIndex = next
		}
	}

	session, err := p.NewSession(p.userAgent(src), opts.NoHeadless)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	runner := articles.NewRunner(session, articles.NewExtractor(src.Selectors.Article, log), writer, store, articles.Config{
		Category:    src.Name,
		TargetYear:  src.TargetYear,
		RateLimit:   p.rateLimit(src),
		WaitTimeout: ccfg.WaitTimeout,
		FirstIndex:  firstIndex,
		ImageScroll: ccfg.ImageScroll,
		Retry:       ccfg.Retry,
	}, log)

	stats, err := runner.Run(ctx, links, opts.Start, p.maxItems(src, opts.Max))
	out := &ExtractResult{Source: src.Name, Dir: writer.Dir(), Stats: stats}
	if err != nil {
		return out, fmt.Errorf("extract %s: %w", src.Name, err)
	}

	log.Info("Extraction complete",
		"source", src.Name,
		"attempted", stats.Attempted,
		"extracted", stats.Extracted,
		"failed", stats.Failed,
		"skipped", stats.Skipped)
	return out, nil
}

// RunOptions adjusts a full discover-then-extract run.
type RunOptions struct {
	// Fresh deletes stored progress before extraction.
	Fresh bool
	// NoHeadless runs the browser with a visible window.
	NoHeadless bool
}

// RunResult reports a full per-source run. Extract is nil when discovery
// produced no links.
type RunResult struct {
	Discover *DiscoverResult
	Extract  *ExtractResult
}

// RunSource discovers links for the source and extracts the linked
// articles, each engine on its own browser session.
func (p *Pipeline) RunSource(ctx context.Context, src sources.Config, opts RunOptions) (*RunResult, error) {
	disc, err := p.Discover(ctx, src, DiscoverOptions{NoHeadless: opts.NoHeadless})
	if err != nil {
		return &RunResult{Discover: disc}, err
	}
	if len(disc.Links) == 0 {
		p.deps.Logger.Warn("No links discovered, skipping extraction", "source", src.Name)
		return &RunResult{Discover: disc}, nil
	}

	ext, err := p.Extract(ctx, src, disc.Links, ExtractOptions{
		Fresh:      opts.Fresh,
		NoHeadless: opts.NoHeadless,
	})
	return &RunResult{Discover: disc, Extract: ext}, err
}

// progressStore opens the progress database once and reuses it.
func (p *Pipeline) progressStore() (storage.ProgressStore, error) {
	p.progressOnce.Do(func() {
		p.progress, p.progressErr = OpenProgress(p.deps.Config)
	})
	if p.progressErr != nil {
		return nil, p.progressErr
	}
	return p.progress.Store, nil
}

func (p *Pipeline) method(src sources.Config) string {
	if src.Method != "" {
		return src.Method
	}
	return p.deps.Config.GetCrawlerConfig().Method
}

func (p *Pipeline) userAgent(src sources.Config) string {
	if src.UserAgent != "" {
		return src.UserAgent
	}
	return p.deps.Config.GetCrawlerConfig().UserAgent
}

func (p *Pipeline) rateLimit(src sources.Config) time.Duration {
	if src.RateLimit > 0 {
		return src.RateLimit
	}
	return p.deps.Config.GetCrawlerConfig().RateLimit
}

func (p *Pipeline) maxLinks(src sources.Config) int {
	if src.MaxLinks > 0 {
		return src.MaxLinks
	}
	return p.deps.Config.GetCrawlerConfig().MaxLinks
}

func (p *Pipeline) maxItems(src sources.Config, override int) int {
	if override > 0 {
		return override
	}
	if src.MaxArticles > 0 {
		return src.MaxArticles
	}
	return p.deps.Config.GetCrawlerConfig().MaxArticles
}
