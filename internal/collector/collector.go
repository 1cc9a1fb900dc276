// Package collector implements link discovery on news listing pages. It
// drives a browser session against a category page, harvesting candidate
// article links from successive DOM snapshots while scrolling, with year
// filtering, deduplication, and bounded iteration. Sources that publish a
// feed can skip the browser entirely and discover links over RSS/Atom.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/zcrawl/zcrawl/internal/browser"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/frontier"
	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// TerminationReason identifies which stop condition ended a discovery run.
type TerminationReason string

// Discovery stop conditions.
const (
	// TerminationMaxItems means the link cap was reached.
	TerminationMaxItems TerminationReason = "max_items"
	// TerminationYearBoundary means the oldest visible candidate predates
	// the target year.
	TerminationYearBoundary TerminationReason = "year_boundary"
	// TerminationScrollCap means the scroll iteration cap was reached.
	TerminationScrollCap TerminationReason = "scroll_cap"
	// TerminationStagnation means consecutive scrolls surfaced no new links.
	TerminationStagnation TerminationReason = "stagnation"
	// TerminationEndOfContent means the feed was exhausted.
	TerminationEndOfContent TerminationReason = "end_of_content"
)

// Request describes one discovery run.
type Request struct {
	// URL is the category listing page to crawl.
	URL string
	// FeedURL is the RSS/Atom feed, required for the feed method.
	FeedURL string
	// Category names the source, for logging only.
	Category string
	// Method selects the discovery walk: scroll, article, or feed.
	Method string
	// TargetYear restricts discovery to articles published in this year.
	// Zero disables the filter.
	TargetYear int
	// MaxLinks caps how many links are collected. Zero means no cap.
	MaxLinks int
	// Selectors locate cards, links, and dates. Unset fields fall back to
	// the stock selector set.
	Selectors sources.Selectors
	// Scroll is the scroll loop policy. Zero fields fall back to defaults.
	Scroll crawlerconfig.ScrollConfig
	// WaitTimeout bounds the initial wait for the candidate container.
	WaitTimeout time.Duration
	// UserAgent is presented on feed fetches.
	UserAgent string
}

// Result reports what a discovery run produced and why it stopped.
type Result struct {
	// Links holds the discovered URLs in discovery order.
	Links *domain.LinkSet
	// Termination is the stop condition that ended the run.
	Termination TerminationReason
	// Scrolls is the number of scroll steps performed.
	Scrolls int
	// Candidates counts every card or feed item inspected, duplicates
	// included.
	Candidates int
	// Skipped counts candidates dropped for being future-dated, missing a
	// link, or carrying an unusable URL.
	Skipped int
}

// Collector discovers article links from a source's listing page or feed.
// A Collector drives a single browser session and is not safe for
// concurrent use.
type Collector struct {
	session browser.Session
	logger  logger.Interface
}

// New creates a Collector on the given browser session. The session may be
// nil when only feed discovery will be used.
func New(session browser.Session, log logger.Interface) *Collector {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Collector{
		session: session,
		logger:  log,
	}
}

// Collect runs link discovery per the request and returns the collected
// links with the termination reason. On failure the partial result gathered
// so far is returned alongside the error, so callers can persist what was
// found before the interruption.
func (c *Collector) Collect(ctx context.Context, req Request) (*Result, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid discovery request: %w", err)
	}

	if req.Method == crawlerconfig.MethodFeed {
		return c.collectFeed(ctx, req)
	}

	return c.collectScroll(ctx, req)
}

// collectScroll drives the browser scroll loop shared by the scroll and
// article walking modes.
func (c *Collector) collectScroll(ctx context.Context, req Request) (*Result, error) {
	if c.session == nil {
		return nil, errors.New("browser session is required for scroll discovery")
	}

	c.logger.Info("Starting link discovery",
		"category", req.Category,
		"url", req.URL,
		"method", req.Method,
		"target_year", req.TargetYear,
		"max_links", req.MaxLinks)

	if err := c.session.Navigate(ctx, req.URL); err != nil {
		return nil, fmt.Errorf("failed to open listing page: %w", err)
	}

	waitSel := req.waitSelector()
	visible, err := c.session.WaitVisible(ctx, waitSel, req.WaitTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for candidate container: %w", err)
	}
	if !visible {
		return nil, fmt.Errorf("candidate container %q never appeared on %s: %w",
			waitSel, req.URL, browser.ErrWaitTimeout)
	}

	res := &Result{
		Links:       domain.NewLinkSet(),
		Termination: TerminationScrollCap,
	}
	stagnant := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		html, err := c.session.HTML(ctx)
		if err != nil {
			return res, fmt.Errorf("failed to snapshot listing page: %w", err)
		}

		added, boundary, walkErr := c.walkSnapshot(html, &req, res)
		if walkErr != nil {
			return res, walkErr
		}

		if req.MaxLinks > 0 && res.Links.Len() >= req.MaxLinks {
			res.Termination = TerminationMaxItems
			break
		}
		if boundary {
			res.Termination = TerminationYearBoundary
			break
		}
		if added == 0 {
			stagnant++
			if stagnant >= req.Scroll.StagnationLimit {
				res.Termination = TerminationStagnation
				break
			}
		} else {
			stagnant = 0
		}
		if res.Scrolls >= req.Scroll.MaxScrolls {
			res.Termination = TerminationScrollCap
			break
		}

		if err := c.session.ScrollToBottom(ctx); err != nil {
			return res, fmt.Errorf("failed to scroll listing page: %w", err)
		}
		res.Scrolls++

		if err := c.session.Sleep(ctx, req.Scroll.Pause); err != nil {
			return res, err
		}
	}

	c.logger.Info("Link discovery finished",
		"category", req.Category,
		"links", res.Links.Len(),
		"scrolls", res.Scrolls,
		"candidates", res.Candidates,
		"termination", res.Termination)

	return res, nil
}

// walkSnapshot harvests candidate links from one DOM snapshot. It reports
// how many new links were added and whether the snapshot's oldest dated
// candidate predates the target year. Listing pages are assumed
// reverse-chronological, so crossing the year boundary means no further
// scrolling can surface in-range items.
func (c *Collector) walkSnapshot(html string, req *Request, res *Result) (int, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse listing snapshot: %w", err)
	}

	cards, found := req.selectCards(doc)
	if !found {
		c.logger.Warn("Candidate container missing from snapshot",
			"category", req.Category,
			"container", req.Selectors.List.Container)
		return 0, false, nil
	}

	var (
		added    int
		boundary bool
	)

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		res.Candidates++

		year, dated := candidateYear(card, req.Selectors.List)
		if req.TargetYear > 0 && dated {
			if year > req.TargetYear {
				res.Skipped++
				return true
			}
			if year < req.TargetYear {
				boundary = true
				return true
			}
		}

		href, ok := req.cardLink(card)
		if !ok {
			res.Skipped++
			c.logger.Warn("Candidate card has no link", "category", req.Category)
			return true
		}

		normalized, normErr := normalizeCandidate(req.URL, href)
		if normErr != nil {
			res.Skipped++
			c.logger.Debug("Dropping unusable candidate URL",
				"category", req.Category, "href", href)
			return true
		}

		if res.Links.Add(normalized) {
			added++
			c.logger.Debug("Discovered link", "url", normalized)
		}

		if req.MaxLinks > 0 && res.Links.Len() >= req.MaxLinks {
			return false
		}
		return true
	})

	return added, boundary, nil
}

// selectCards returns the card selection for the request's walking mode.
// The second return reports whether the candidate container was present.
func (r *Request) selectCards(doc *goquery.Document) (*goquery.Selection, bool) {
	if r.Method == crawlerconfig.MethodArticle {
		cards := doc.Find(articleCardSelector)
		return cards, cards.Length() > 0
	}

	container := doc.Find(r.Selectors.List.Container)
	if container.Length() == 0 {
		return nil, false
	}
	return container.Find(r.Selectors.List.Cards), true
}

// cardLink extracts the article URL from a candidate card.
func (r *Request) cardLink(card *goquery.Selection) (string, bool) {
	sel := r.Selectors.List.Link
	if r.Method == crawlerconfig.MethodArticle {
		sel = articleLinkSelector
	}

	href, ok := card.Find(sel).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return href, true
}

// waitSelector is the element whose visibility confirms the listing page
// rendered its candidates.
func (r *Request) waitSelector() string {
	if r.Method == crawlerconfig.MethodArticle {
		return articleCardSelector
	}
	return r.Selectors.List.Container
}

// normalizeCandidate resolves href against the listing page URL and
// normalizes the result to its canonical form.
func normalizeCandidate(pageURL, href string) (string, error) {
	resolved, err := frontier.ResolveReference(pageURL, href)
	if err != nil {
		return "", err
	}
	return frontier.NormalizeURL(resolved)
}

// Selectors for the article walking mode, which reads bare <article>
// elements instead of a configured container.
const (
	articleCardSelector = "article"
	articleLinkSelector = "a"
)

// applyDefaults fills unset request fields so the zero value of each knob
// means "use the default".
func (r *Request) applyDefaults() {
	if r.Method == "" {
		r.Method = crawlerconfig.DefaultMethod
	}
	if r.WaitTimeout <= 0 {
		r.WaitTimeout = crawlerconfig.DefaultWaitTimeout
	}
	if r.Scroll.MaxScrolls <= 0 {
		r.Scroll.MaxScrolls = crawlerconfig.DefaultMaxScrolls
	}
	if r.Scroll.Pause <= 0 {
		r.Scroll.Pause = crawlerconfig.DefaultScrollPause
	}
	if r.Scroll.StagnationLimit <= 0 {
		r.Scroll.StagnationLimit = crawlerconfig.DefaultStagnationLimit
	}
	r.Selectors.ApplyDefaults()
}

// validate rejects requests that cannot be dispatched.
func (r *Request) validate() error {
	switch r.Method {
	case crawlerconfig.MethodScroll, crawlerconfig.MethodArticle:
		if r.URL == "" {
			return errors.New("seed url is required")
		}
	case crawlerconfig.MethodFeed:
		if r.FeedURL == "" {
			return errors.New("feed url is required for feed discovery")
		}
	default:
		return fmt.Errorf("unknown discovery method %q", r.Method)
	}

	if r.MaxLinks < 0 {
		return errors.New("max links must be non-negative")
	}
	return nil
}
