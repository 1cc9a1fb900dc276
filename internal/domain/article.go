// Package domain provides domain models used across the application.
package domain

import (
	"strings"
)

// Article represents one extracted news article.
type Article struct {
	// Source URL the article was extracted from
	URL string `json:"url"`
	// Headline text
	Title string `json:"title"`
	// Summary followed by body paragraphs, joined with newlines
	Content string `json:"content"`
	// Extraction metadata
	Metadata Metadata `json:"metadata"`
}

// Metadata carries supplementary data extracted alongside the article body.
type Metadata struct {
	// Images found inside the article body, in document order
	Images []Image `json:"images"`
}

// Image represents one image block inside the article body. URL may hold
// several comma-separated addresses when a block carries multiple sources.
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// HasTitle reports whether the article carries a non-blank title.
func (a *Article) HasTitle() bool {
	return strings.TrimSpace(a.Title) != ""
}

// HasContent reports whether the article carries non-blank content.
func (a *Article) HasContent() bool {
	return strings.TrimSpace(a.Content) != ""
}

// ParagraphCount returns the number of newline-separated blocks in Content.
func (a *Article) ParagraphCount() int {
	if !a.HasContent() {
		return 0
	}
	return len(strings.Split(a.Content, "\n"))
}
