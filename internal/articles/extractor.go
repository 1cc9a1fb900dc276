// Package articles implements per-article field extraction and the batch
// runner that drives it. The extractor pulls title, content, and image
// blocks out of a rendered article page; the runner walks a discovered link
// list through a navigate/extract/validate/persist state machine with
// bounded retries, resumable progress, and per-item failure isolation.
package articles

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// Extractor pulls article fields out of a document snapshot using a
// source's selector set.
type Extractor struct {
	selectors sources.ArticleSelectors
	logger    logger.Interface
}

// NewExtractor creates an Extractor. Unset selector fields fall back to the
// stock set.
func NewExtractor(sel sources.ArticleSelectors, log logger.Interface) *Extractor {
	if log == nil {
		log = logger.NewNoOp()
	}

	full := sources.Selectors{Article: sel}
	full.ApplyDefaults()

	return &Extractor{
		selectors: full.Article,
		logger:    log,
	}
}

// Extract parses the document snapshot and builds the article record for
// url. A page missing its title or body element fails with ErrFieldMissing;
// a missing summary only degrades the content.
func (e *Extractor) Extract(html, url string) (*domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article page: %w", err)
	}

	title := doc.Find(e.selectors.Title).First()
	if title.Length() == 0 {
		return nil, fmt.Errorf("%w: title (%s)", ErrFieldMissing, e.selectors.Title)
	}

	body := doc.Find(e.selectors.Body).First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("%w: body (%s)", ErrFieldMissing, e.selectors.Body)
	}

	article := &domain.Article{
		URL:     url,
		Title:   strings.TrimSpace(title.Text()),
		Content: e.extractContent(doc, body),
		Metadata: domain.Metadata{
			Images: e.extractImages(body),
		},
	}

	return article, nil
}

// extractContent joins the article summary with the body's direct paragraph
// children. Nested paragraphs inside figures and embeds are excluded so
// captions do not leak into the running text.
func (e *Extractor) extractContent(doc *goquery.Document, body *goquery.Selection) string {
	var parts []string

	summary := strings.TrimSpace(doc.Find(e.selectors.Summary).First().Text())
	if summary != "" {
		parts = append(parts, summary)
	} else {
		e.logger.Warn("Summary not found", "selector", e.selectors.Summary)
	}

	body.ChildrenFiltered("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n")
}

// extractImages collects the image blocks inside the article body. Each
// block yields its img sources joined with ", " plus the block's visible
// text as the caption. Blocks without a resolvable source are dropped.
func (e *Extractor) extractImages(body *goquery.Selection) []domain.Image {
	var images []domain.Image

	body.Find(e.selectors.PhotoWrapper).Each(func(_ int, wrapper *goquery.Selection) {
		var srcs []string
		wrapper.Find(e.selectors.PhotoImage).Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok && src != "" {
				srcs = append(srcs, src)
			}
		})

		if len(srcs) == 0 {
			return
		}

		images = append(images, domain.Image{
			URL:     strings.Join(srcs, ", "),
			Caption: strings.TrimSpace(wrapper.Text()),
		})
	})

	return images
}
