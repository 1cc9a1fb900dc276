package sources

import (
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
)

// DefaultSources returns the built-in source registry used when no sources
// file is present.
func DefaultSources() []Config {
	sel := DefaultSelectors()
	return []Config{
		{
			Name:      "bong_da",
			URL:       "https://znews.vn/bong-da-viet-nam.html",
			RateLimit: crawlerconfig.DefaultRateLimit,
			Selectors: sel,
		},
		{
			Name:      "giao_duc",
			URL:       "https://lifestyle.znews.vn/giao-duc.html",
			RateLimit: crawlerconfig.DefaultRateLimit,
			Selectors: sel,
		},
		{
			Name:      "phap_luat",
			URL:       "https://zingnews.vn/phap-luat.html",
			RateLimit: crawlerconfig.DefaultRateLimit,
			Selectors: sel,
		},
	}
}
