package collector_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/browser"
	"github.com/zcrawl/zcrawl/internal/collector"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/testutils"
)

const seedURL = "https://znews.vn/bong-da-viet-nam.html"

// card renders one listing card in the stock markup shape.
func card(href, datetime string) string {
	var b strings.Builder
	b.WriteString(`<div class="article-item">`)
	b.WriteString(`<p class="article-thumbnail"><a href="` + href + `">thumb</a></p>`)
	if datetime != "" {
		b.WriteString(`<time datetime="` + datetime + `">hôm nay</time>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// textDateCard renders a card whose date appears only as visible text.
func textDateCard(href, dateText string) string {
	return `<div class="article-item">` +
		`<p class="article-thumbnail"><a href="` + href + `">thumb</a></p>` +
		`<span class="date">` + dateText + `</span>` +
		`</div>`
}

// listing wraps cards in the stock category page scaffolding.
func listing(cards ...string) string {
	return `<html><body><div id="news-latest"><div class="section-content">` +
		strings.Join(cards, "") +
		`</div></div></body></html>`
}

func newRequest() collector.Request {
	return collector.Request{
		URL:        seedURL,
		Category:   "bong_da",
		Method:     crawlerconfig.MethodScroll,
		TargetYear: 2024,
		MaxLinks:   20,
		Scroll: crawlerconfig.ScrollConfig{
			MaxScrolls:      5,
			Pause:           10 * time.Millisecond,
			StagnationLimit: 2,
		},
		WaitTimeout: time.Second,
	}
}

func TestCollectDeduplicatesAcrossScrolls(t *testing.T) {
	t.Parallel()

	c1 := card("https://znews.vn/tran-dau-post1.html", "2024-03-15T10:00:00+07:00")
	c2 := card("https://znews.vn/chuyen-nhuong-post2.html", "2024-03-14T08:30:00+07:00")
	c3 := card("https://znews.vn/hau-truong-post3.html", "2024-03-13T21:00:00+07:00")

	session := &testutils.ScriptedSession{
		Pages: []string{
			listing(c1, c2),
			listing(c1, c2, c3),
		},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://znews.vn/tran-dau-post1.html",
		"https://znews.vn/chuyen-nhuong-post2.html",
		"https://znews.vn/hau-truong-post3.html",
	}, res.Links.URLs())
	assert.Equal(t, collector.TerminationStagnation, res.Termination)
	assert.Equal(t, []string{seedURL}, session.NavigatedURLs)
}

func TestCollectYearBoundary(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{listing(
			card("https://znews.vn/moi-post1.html", "2024-01-02T09:00:00+07:00"),
			card("https://znews.vn/cu-hon-post2.html", "2024-01-01T09:00:00+07:00"),
			card("https://znews.vn/nam-ngoai-post3.html", "2023-12-31T09:00:00+07:00"),
		)},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, collector.TerminationYearBoundary, res.Termination)
	assert.Equal(t, []string{
		"https://znews.vn/moi-post1.html",
		"https://znews.vn/cu-hon-post2.html",
	}, res.Links.URLs())
	assert.Zero(t, res.Scrolls)
	assert.False(t, res.Links.Contains("https://znews.vn/nam-ngoai-post3.html"))
}

func TestCollectSkipsFutureDatedCandidates(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{listing(
			card("https://znews.vn/nam-sau-post1.html", "2025-01-01T00:00:00+07:00"),
			card("https://znews.vn/trong-nam-post2.html", "2024-06-01T12:00:00+07:00"),
		)},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://znews.vn/trong-nam-post2.html"}, res.Links.URLs())
	assert.False(t, res.Links.Contains("https://znews.vn/nam-sau-post1.html"))
	assert.Positive(t, res.Skipped)
}

func TestCollectRetainsUndatedCandidates(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{listing(
			card("https://znews.vn/khong-ngay-post1.html", ""),
			card("https://znews.vn/co-ngay-post2.html", "2024-02-01T10:00:00+07:00"),
		)},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.True(t, res.Links.Contains("https://znews.vn/khong-ngay-post1.html"))
	assert.True(t, res.Links.Contains("https://znews.vn/co-ngay-post2.html"))
}

func TestCollectTextDateFallback(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{listing(
			textDateCard("https://znews.vn/van-ban-post1.html", "15/03/2024"),
			textDateCard("https://znews.vn/nam-cu-post2.html", "30/12/2023"),
		)},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, collector.TerminationYearBoundary, res.Termination)
	assert.Equal(t, []string{"https://znews.vn/van-ban-post1.html"}, res.Links.URLs())
}

func TestCollectISOOffsetWithoutColon(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{listing(
			card("https://znews.vn/offset-post1.html", "2024-03-15T10:00:00+0700"),
			card("https://znews.vn/bare-date-post2.html", "2024-03-14"),
			card("https://znews.vn/ranh-gioi-post3.html", "2023-11-01"),
		)},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, collector.TerminationYearBoundary, res.Termination)
	assert.Equal(t, []string{
		"https://znews.vn/offset-post1.html",
		"https://znews.vn/bare-date-post2.html",
	}, res.Links.URLs())
}

func TestCollectMaxLinks(t *testing.T) {
	t.Parallel()

	var cards []string
	for i := 1; i <= 5; i++ {
		cards = append(cards, card(
			fmt.Sprintf("https://znews.vn/bai-post%d.html", i),
			"2024-04-01T08:00:00+07:00"))
	}
	session := &testutils.ScriptedSession{Pages: []string{listing(cards...)}}

	req := newRequest()
	req.MaxLinks = 3

	res, err := collector.New(session, nil).Collect(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, collector.TerminationMaxItems, res.Termination)
	assert.Equal(t, []string{
		"https://znews.vn/bai-post1.html",
		"https://znews.vn/bai-post2.html",
		"https://znews.vn/bai-post3.html",
	}, res.Links.URLs())
	assert.Zero(t, res.Scrolls)
}

func TestCollectScrollCap(t *testing.T) {
	t.Parallel()

	pages := make([]string, 0, 4)
	var cards []string
	for i := 1; i <= 4; i++ {
		cards = append(cards, card(
			fmt.Sprintf("https://znews.vn/trang-post%d.html", i),
			"2024-05-01T08:00:00+07:00"))
		pages = append(pages, listing(cards...))
	}
	session := &testutils.ScriptedSession{Pages: pages}

	req := newRequest()
	req.Scroll.MaxScrolls = 2

	res, err := collector.New(session, nil).Collect(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, collector.TerminationScrollCap, res.Termination)
	assert.Equal(t, 2, res.Scrolls)
	assert.Equal(t, 3, res.Links.Len())
}

func TestCollectFirstLoadTimeoutIsHardFailure(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages:     []string{listing()},
		Invisible: map[string]bool{"#news-latest .section-content": true},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrWaitTimeout)
	assert.Nil(t, res)
}

func TestCollectContainerVanishesMidRun(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{
			listing(card("https://znews.vn/con-day-post1.html", "2024-01-10T07:00:00+07:00")),
			`<html><body><div class="unrelated"></div></body></html>`,
		},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, collector.TerminationStagnation, res.Termination)
	assert.Equal(t, []string{"https://znews.vn/con-day-post1.html"}, res.Links.URLs())
}

func TestCollectArticleMethod(t *testing.T) {
	t.Parallel()

	page := `<html><body>` +
		`<article><a href="/doi-song/bai-post1.html">one</a>` +
		`<time datetime="2024-07-01T09:00:00+07:00">t</time></article>` +
		`<article><a href="https://znews.vn/doi-song/bai-post2.html">two</a>` +
		`<time datetime="2024-06-30T09:00:00+07:00">t</time></article>` +
		`</body></html>`
	session := &testutils.ScriptedSession{Pages: []string{page}}

	req := newRequest()
	req.Method = crawlerconfig.MethodArticle

	res, err := collector.New(session, nil).Collect(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://znews.vn/doi-song/bai-post1.html",
		"https://znews.vn/doi-song/bai-post2.html",
	}, res.Links.URLs())
}

func TestCollectSkipsCandidatesWithoutLinks(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		Pages: []string{listing(
			`<div class="article-item"><time datetime="2024-01-05T08:00:00+07:00">t</time></div>`,
			card("https://znews.vn/du-lieu-post1.html", "2024-01-04T08:00:00+07:00"),
			card("mailto:toasoan@znews.vn", "2024-01-03T08:00:00+07:00"),
		)},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://znews.vn/du-lieu-post1.html"}, res.Links.URLs())
	assert.GreaterOrEqual(t, res.Skipped, 2)
}

func TestCollectNavigationError(t *testing.T) {
	t.Parallel()

	session := &testutils.ScriptedSession{
		NavigateErrs: map[string][]error{
			seedURL: {fmt.Errorf("navigate %s: %w", seedURL, browser.ErrNavigation)},
		},
	}

	res, err := collector.New(session, nil).Collect(context.Background(), newRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrNavigation)
	assert.Nil(t, res)
}

func TestCollectCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &testutils.ScriptedSession{Pages: []string{listing()}}

	_, err := collector.New(session, nil).Collect(ctx, newRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectRejectsInvalidRequests(t *testing.T) {
	t.Parallel()

	c := collector.New(&testutils.ScriptedSession{}, nil)

	_, err := c.Collect(context.Background(), collector.Request{Method: "spider", URL: seedURL})
	assert.ErrorContains(t, err, "unknown discovery method")

	_, err = c.Collect(context.Background(), collector.Request{Method: crawlerconfig.MethodScroll})
	assert.ErrorContains(t, err, "seed url is required")

	_, err = c.Collect(context.Background(), collector.Request{Method: crawlerconfig.MethodFeed})
	assert.ErrorContains(t, err, "feed url is required")

	_, err = c.Collect(context.Background(), collector.Request{URL: seedURL, MaxLinks: -1})
	assert.ErrorContains(t, err, "max links must be non-negative")
}
