package collector

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/zcrawl/zcrawl/internal/sources"
)

// isoLayouts are the timestamp shapes seen in datetime attributes: a full
// offset timestamp with or without the offset colon, or a bare date.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// candidateYear extracts the publish year of a listing card. It prefers the
// machine-readable datetime attribute and falls back to the visible date
// text. The second return reports whether a year could be extracted.
func candidateYear(card *goquery.Selection, sel sources.ListSelectors) (int, bool) {
	if node := card.Find(sel.Time).First(); node.Length() > 0 {
		if raw, ok := node.Attr("datetime"); ok {
			if t, parsed := parseISODate(raw); parsed {
				return t.Year(), true
			}
		}
	}

	if node := card.Find(sel.DateText).First(); node.Length() > 0 {
		if t, parsed := parseTextDate(node.Text()); parsed {
			return t.Year(), true
		}
	}

	return 0, false
}

// parseISODate parses an ISO 8601 timestamp or bare date.
func parseISODate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTextDate parses a DD/MM/YYYY date as printed on listing cards.
func parseTextDate(value string) (time.Time, bool) {
	t, err := time.Parse("2/1/2006", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
