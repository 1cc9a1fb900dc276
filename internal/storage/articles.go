package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zcrawl/zcrawl/internal/domain"
)

const jsonIndent = "    "

// FileArticleWriter persists articles as numbered JSON documents under a
// per-category directory.
type FileArticleWriter struct {
	root     string
	category string
}

var _ ArticleWriter = (*FileArticleWriter)(nil)

// NewFileArticleWriter creates a writer rooted at root/category, creating
// the directory if needed.
func NewFileArticleWriter(root, category string) (*FileArticleWriter, error) {
	w := &FileArticleWriter{root: root, category: category}
	if err := os.MkdirAll(w.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create articles directory: %w", err)
	}
	return w, nil
}

// Save writes the article as <index>.json with 4-space indentation, keeping
// non-ASCII text and URL characters unescaped. It returns the path written.
func (w *FileArticleWriter) Save(article *domain.Article, index int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(article); err != nil {
		return "", fmt.Errorf("failed to encode article: %w", err)
	}

	path := filepath.Join(w.Dir(), strconv.Itoa(index)+".json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write article file: %w", err)
	}
	return path, nil
}

// Dir returns the directory articles are written to.
func (w *FileArticleWriter) Dir() string {
	return filepath.Join(w.root, w.category)
}

// NextIndex returns one past the highest existing numbered article file, so
// a new batch continues the sequence.
func (w *FileArticleWriter) NextIndex() (int, error) {
	entries, err := os.ReadDir(w.Dir())
	if err != nil {
		return 0, fmt.Errorf("failed to scan articles directory: %w", err)
	}

	next := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok {
			continue
		}
		if n, convErr := strconv.Atoi(name); convErr == nil && n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}
