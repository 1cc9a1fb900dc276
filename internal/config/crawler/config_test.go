package crawler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/config/crawler"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	mutate := func(fn func(*crawler.Config)) *crawler.Config {
		cfg := crawler.New()
		fn(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *crawler.Config
		wantErr bool
	}{
		{name: "defaults are valid", config: crawler.New(), wantErr: false},
		{name: "feed method", config: crawler.New(crawler.WithMethod(crawler.MethodFeed)), wantErr: false},
		{name: "unknown method", config: crawler.New(crawler.WithMethod("rss2")), wantErr: true},
		{name: "negative max links", config: crawler.New(crawler.WithMaxLinks(-1)), wantErr: true},
		{name: "zero workers", config: crawler.New(crawler.WithWorkers(0)), wantErr: true},
		{name: "too many workers", config: crawler.New(crawler.WithWorkers(crawler.MaxWorkers + 1)), wantErr: true},
		{
			name:    "zero max scrolls",
			config:  mutate(func(c *crawler.Config) { c.Scroll.MaxScrolls = 0 }),
			wantErr: true,
		},
		{
			name:    "zero stagnation limit",
			config:  mutate(func(c *crawler.Config) { c.Scroll.StagnationLimit = 0 }),
			wantErr: true,
		},
		{
			name:    "zero retry attempts",
			config:  mutate(func(c *crawler.Config) { c.Retry.MaxRetries = 0 }),
			wantErr: true,
		},
		{
			name:    "zero wait timeout",
			config:  mutate(func(c *crawler.Config) { c.WaitTimeout = 0 }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	cfg := crawler.New()

	assert.Equal(t, crawler.MethodScroll, cfg.Method)
	assert.Equal(t, crawler.DefaultMaxScrolls, cfg.Scroll.MaxScrolls)
	assert.Equal(t, crawler.DefaultScrollPause, cfg.Scroll.Pause)
	assert.Equal(t, crawler.DefaultStagnationLimit, cfg.Scroll.StagnationLimit)
	assert.Equal(t, crawler.DefaultMaxRetries, cfg.Retry.MaxRetries)
	assert.Equal(t, crawler.DefaultWorkers, cfg.Workers)
}

func TestParseDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", input: "10s", want: 10 * time.Second},
		{name: "minutes", input: "1m", want: time.Minute},
		{name: "bare integer seconds", input: "2", want: 2 * time.Second},
		{name: "bare float seconds", input: "0.3", want: 300 * time.Millisecond},
		{name: "whitespace trimmed", input: " 5s ", want: 5 * time.Second},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-2s", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := crawler.ParseDelay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
