package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LinkFile writes discovered URLs to a newline-delimited UTF-8 file.
type LinkFile struct {
	path string
	file *os.File
	w    *bufio.Writer
}

var _ LinkWriter = (*LinkFile)(nil)

// NewLinkFile opens path for link writing, creating parent directories.
// With overwrite set the file is truncated, otherwise URLs append.
func NewLinkFile(path string, overwrite bool) (*LinkFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create links directory: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open links file: %w", err)
	}
	return &LinkFile{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Write appends one URL as a line.
func (l *LinkFile) Write(url string) error {
	if _, err := l.w.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("failed to write link: %w", err)
	}
	return nil
}

// Close flushes buffered links and closes the file.
func (l *LinkFile) Close() error {
	if err := l.w.Flush(); err != nil {
		l.file.Close()
		return fmt.Errorf("failed to flush links file: %w", err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close links file: %w", err)
	}
	return nil
}

// Path returns the file path links are written to.
func (l *LinkFile) Path() string {
	return l.path
}

// ReadLinks loads a newline-delimited link file, skipping blank lines.
func ReadLinks(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}

	var links []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			links = append(links, line)
		}
	}
	return links, nil
}
