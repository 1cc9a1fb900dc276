package frontier_test

import (
	"testing"

	"github.com/zcrawl/zcrawl/internal/frontier"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		// Scheme and host normalization
		{"lowercase scheme", "HTTPS://Example.com/Path", "https://example.com/Path", false},
		{"lowercase host", "https://EXAMPLE.COM/path", "https://example.com/path", false},
		{"http kept as http", "http://example.com/path", "http://example.com/path", false},

		// Port handling
		{"remove default https port", "https://example.com:443/path", "https://example.com/path", false},
		{"remove default http port", "http://example.com:80/path", "http://example.com/path", false},
		{"keep non-default port", "https://example.com:8080/path", "https://example.com:8080/path", false},

		// Path normalization
		{"remove trailing slash", "https://example.com/path/", "https://example.com/path", false},
		{"keep root slash", "https://example.com/", "https://example.com/", false},
		{"plain article path", "https://znews.vn/tin-tuc-bong-da-post123.html", "https://znews.vn/tin-tuc-bong-da-post123.html", false},
		{"resolve dot segments", "https://example.com/a/b/../c", "https://example.com/a/c", false},
		{"resolve current dir segments", "https://example.com/a/./b", "https://example.com/a/b", false},

		// Query and fragment removal
		{"remove fragment", "https://example.com/path#section", "https://example.com/path", false},
		{"remove query", "https://example.com/path?page=2", "https://example.com/path", false},
		{"remove query and fragment", "https://example.com/path?a=1&b=2#top", "https://example.com/path", false},

		// Error cases
		{"empty string", "", "", true},
		{"invalid url", "://not-a-url", "", true},
		{"missing scheme", "example.com/path", "", true},
		{"non-http scheme", "javascript:void(0)", "", true},
		{"mailto link", "mailto:tips@znews.vn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := frontier.NormalizeURL(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("NormalizeURL(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL_QueryVariantsCollapse(t *testing.T) {
	variants := []string{
		"https://znews.vn/article-post456.html",
		"https://znews.vn/article-post456.html?utm_source=home",
		"https://znews.vn/article-post456.html#comments",
		"https://znews.vn/article-post456.html/",
	}

	want := "https://znews.vn/article-post456.html"
	for _, v := range variants {
		got, err := frontier.NormalizeURL(v)
		if err != nil {
			t.Fatalf("NormalizeURL(%q) unexpected error: %v", v, err)
		}
		if got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		href    string
		want    string
		wantErr bool
	}{
		{"relative path", "https://znews.vn/bong-da.html", "/article-post1.html", "https://znews.vn/article-post1.html", false},
		{"relative without slash", "https://znews.vn/the-thao/", "article-post2.html", "https://znews.vn/the-thao/article-post2.html", false},
		{"absolute passthrough", "https://znews.vn/bong-da.html", "https://other.vn/a.html", "https://other.vn/a.html", false},
		{"protocol relative", "https://znews.vn/bong-da.html", "//cdn.znews.vn/a.html", "https://cdn.znews.vn/a.html", false},
		{"empty href", "https://znews.vn/bong-da.html", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := frontier.ResolveReference(tt.base, tt.href)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveReference(%q, %q) expected error, got nil", tt.base, tt.href)
				}
				return
			}

			if err != nil {
				t.Errorf("ResolveReference(%q, %q) unexpected error: %v", tt.base, tt.href, err)
				return
			}

			if got != tt.want {
				t.Errorf("ResolveReference(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "https://example.com/path", "example.com", false},
		{"with port", "https://example.com:8080/path", "example.com", false},
		{"with www", "https://www.example.com/path", "www.example.com", false},
		{"uppercase host", "https://EXAMPLE.COM/path", "example.com", false},
		{"empty string", "", "", true},
		{"invalid url", "://bad", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := frontier.ExtractHost(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ExtractHost(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("ExtractHost(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("ExtractHost(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
