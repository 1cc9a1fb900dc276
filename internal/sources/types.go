package sources

import "time"

// Config describes one crawlable source: its listing URL, the discovery
// method, politeness limits, and the selector sets that locate links and
// article fields in its markup.
type Config struct {
	Name        string
	URL         string
	FeedURL     string
	Method      string
	RateLimit   time.Duration
	TargetYear  int
	MaxLinks    int
	MaxArticles int
	UserAgent   string
	Time        []string
	Disabled    bool
	Selectors   Selectors
}

// Selectors groups the CSS selectors for a source.
type Selectors struct {
	List    ListSelectors    `mapstructure:"list"`
	Article ArticleSelectors `mapstructure:"article"`
}

// ListSelectors locate article links on a listing page.
type ListSelectors struct {
	// Container scopes the card walk on the listing page.
	Container string `mapstructure:"container"`
	// Cards matches one element per article card inside the container.
	Cards string `mapstructure:"cards"`
	// Link matches the anchor inside a card carrying the article URL.
	Link string `mapstructure:"link"`
	// Time matches the element whose datetime attribute holds the ISO
	// publish timestamp.
	Time string `mapstructure:"time"`
	// DateText matches the element whose text holds a DD/MM/YYYY date,
	// consulted when Time yields nothing.
	DateText string `mapstructure:"date_text"`
}

// ArticleSelectors locate the fields of an article page.
type ArticleSelectors struct {
	Title        string `mapstructure:"title"`
	Summary      string `mapstructure:"summary"`
	Body         string `mapstructure:"body"`
	PhotoWrapper string `mapstructure:"photo_wrapper"`
	PhotoImage   string `mapstructure:"photo_image"`
}

// DefaultSelectors returns the selector set for the stock news layout.
func DefaultSelectors() Selectors {
	return Selectors{
		List: ListSelectors{
			Container: "#news-latest .section-content",
			Cards:     ".article-item",
			Link:      ".article-thumbnail a",
			Time:      "time[datetime]",
			DateText:  ".date",
		},
		Article: ArticleSelectors{
			Title:        ".the-article-title",
			Summary:      ".the-article-summary",
			Body:         ".the-article-body",
			PhotoWrapper: ".z-photoviewer-wrapper",
			PhotoImage:   ".pic img",
		},
	}
}

// applyDefaults fills unset selector fields from the stock set.
func (c *Config) applyDefaults() {
	c.Selectors.ApplyDefaults()
}

// ApplyDefaults fills unset selector fields from the stock set.
func (s *Selectors) ApplyDefaults() {
	def := DefaultSelectors()
	if s.List.Container == "" {
		s.List.Container = def.List.Container
	}
	if s.List.Cards == "" {
		s.List.Cards = def.List.Cards
	}
	if s.List.Link == "" {
		s.List.Link = def.List.Link
	}
	if s.List.Time == "" {
		s.List.Time = def.List.Time
	}
	if s.List.DateText == "" {
		s.List.DateText = def.List.DateText
	}
	if s.Article.Title == "" {
		s.Article.Title = def.Article.Title
	}
	if s.Article.Summary == "" {
		s.Article.Summary = def.Article.Summary
	}
	if s.Article.Body == "" {
		s.Article.Body = def.Article.Body
	}
	if s.Article.PhotoWrapper == "" {
		s.Article.PhotoWrapper = def.Article.PhotoWrapper
	}
	if s.Article.PhotoImage == "" {
		s.Article.PhotoImage = def.Article.PhotoImage
	}
}
