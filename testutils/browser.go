// Package testutils provides shared testing utilities across the application.
package testutils

import (
	"context"
	"time"

	"github.com/zcrawl/zcrawl/internal/browser"
)

// ScriptedSession is a browser.Session stub driven by canned page snapshots.
// Scrolling advances through Pages and sticks on the last snapshot; Navigate
// switches to the snapshot registered for the URL when PageByURL is set. The
// zero value succeeds at everything with empty documents. Not safe for
// concurrent use, matching the Session contract.
type ScriptedSession struct {
	// Pages holds document snapshots in scroll order.
	Pages []string
	// PageByURL maps navigated URLs to their document snapshot.
	PageByURL map[string]string
	// NavigateErrs queues per-URL navigation outcomes; a nil entry is a
	// success. Entries are consumed in order.
	NavigateErrs map[string][]error
	// HTMLErr, when set, fails every HTML call.
	HTMLErr error
	// Invisible marks selectors WaitVisible reports as never visible.
	Invisible map[string]bool

	NavigatedURLs []string
	ScrollCount   int
	SleepTotal    time.Duration
	Closed        bool

	current string
	page    int
}

var _ browser.Session = (*ScriptedSession)(nil)

// Navigate records the URL and switches the current snapshot.
func (s *ScriptedSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.NavigatedURLs = append(s.NavigatedURLs, url)
	if q := s.NavigateErrs[url]; len(q) > 0 {
		err := q[0]
		s.NavigateErrs[url] = q[1:]
		if err != nil {
			return err
		}
	}
	switch {
	case s.PageByURL != nil:
		s.current = s.PageByURL[url]
	case len(s.Pages) > 0:
		s.page = 0
		s.current = s.Pages[0]
	default:
		s.current = ""
	}
	return nil
}

// HTML returns the current snapshot.
func (s *ScriptedSession) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.HTMLErr != nil {
		return "", s.HTMLErr
	}
	return s.current, nil
}

// ScrollBy advances to the next snapshot.
func (s *ScriptedSession) ScrollBy(ctx context.Context, _ int) error {
	return s.scroll(ctx)
}

// ScrollToBottom advances to the next snapshot.
func (s *ScriptedSession) ScrollToBottom(ctx context.Context) error {
	return s.scroll(ctx)
}

func (s *ScriptedSession) scroll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.ScrollCount++
	if s.page < len(s.Pages)-1 {
		s.page++
		s.current = s.Pages[s.page]
	}
	return nil
}

// WaitVisible reports whether the selector was scripted as visible.
func (s *ScriptedSession) WaitVisible(ctx context.Context, selector string, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return !s.Invisible[selector], nil
}

// Sleep records the requested pause without waiting.
func (s *ScriptedSession) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.SleepTotal += d
	return nil
}

// Close marks the session closed.
func (s *ScriptedSession) Close() error {
	s.Closed = true
	return nil
}
