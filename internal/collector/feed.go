package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/frontier"
)

// httpPrefix is the scheme prefix used to decide whether a feed GUID is a
// usable URL.
const httpPrefix = "http"

// collectFeed discovers links from the source's RSS/Atom feed. Feeds list
// entries newest first, so the year boundary rule applies the same way it
// does to listing pages.
func (c *Collector) collectFeed(ctx context.Context, req Request) (*Result, error) {
	c.logger.Info("Starting feed discovery",
		"category", req.Category,
		"feed_url", req.FeedURL,
		"target_year", req.TargetYear,
		"max_links", req.MaxLinks)

	parser := gofeed.NewParser()
	if req.UserAgent != "" {
		parser.UserAgent = req.UserAgent
	}

	feed, err := parser.ParseURLWithContext(ctx, req.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", req.FeedURL, err)
	}

	res := &Result{
		Links:       domain.NewLinkSet(),
		Termination: TerminationEndOfContent,
	}

	for _, item := range feed.Items {
		res.Candidates++

		link := feedLink(item)
		if link == "" {
			res.Skipped++
			continue
		}

		if req.TargetYear > 0 {
			if published := feedPublished(item); published != nil {
				year := published.Year()
				if year > req.TargetYear {
					res.Skipped++
					continue
				}
				if year < req.TargetYear {
					res.Termination = TerminationYearBoundary
					break
				}
			}
		}

		normalized, normErr := frontier.NormalizeURL(link)
		if normErr != nil {
			res.Skipped++
			c.logger.Debug("Dropping unusable feed link",
				"category", req.Category, "link", link)
			continue
		}

		res.Links.Add(normalized)

		if req.MaxLinks > 0 && res.Links.Len() >= req.MaxLinks {
			res.Termination = TerminationMaxItems
			break
		}
	}

	c.logger.Info("Feed discovery finished",
		"category", req.Category,
		"links", res.Links.Len(),
		"candidates", res.Candidates,
		"termination", res.Termination)

	return res, nil
}

// feedLink returns the best available URL from a feed entry, preferring the
// explicit link and falling back to a GUID that looks like an HTTP URL.
func feedLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, httpPrefix) {
		return item.GUID
	}
	return ""
}

// feedPublished returns the entry's publish time, falling back to the
// updated time. Nil means the feed carried no usable timestamp.
func feedPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
