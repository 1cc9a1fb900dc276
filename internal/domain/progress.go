package domain

import (
	"time"
)

// CrawlProgress records how far an extraction batch has advanced through a
// category's link list, so an interrupted run can resume without
// reprocessing articles it already handled.
type CrawlProgress struct {
	RunID      string      `db:"run_id"      json:"run_id"`
	Category   string      `db:"category"    json:"category"`
	TargetYear *int        `db:"target_year" json:"target_year,omitempty"`
	MaxItems   int         `db:"max_items"   json:"max_items"`
	Cursor     int         `db:"cursor"      json:"cursor"`
	SeenURLs   JSONStrings `db:"seen_urls"   json:"seen_urls"`
	UpdatedAt  time.Time   `db:"updated_at"  json:"updated_at"`
}

// MarkProcessed records that the link at index was processed, advancing the
// cursor past it. It is called once per article regardless of extraction
// outcome, so the cursor always points at the next unprocessed index.
func (p *CrawlProgress) MarkProcessed(index int, url string) {
	if index+1 > p.Cursor {
		p.Cursor = index + 1
	}
	if !p.Seen(url) {
		p.SeenURLs = append(p.SeenURLs, url)
	}
}

// Seen reports whether url was already processed in this run.
func (p *CrawlProgress) Seen(url string) bool {
	for _, u := range p.SeenURLs {
		if u == url {
			return true
		}
	}
	return false
}
