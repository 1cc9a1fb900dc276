// Package browser provides the automated browser session used to render
// script-driven pages before link discovery and article extraction.
package browser

import (
	"context"
	"time"
)

// Session is a single browser tab under automation. Operations are strictly
// sequential; a Session must not be shared across goroutines. Every blocking
// operation takes a context and returns once the operation completes, the
// context is cancelled, or the session is lost.
type Session interface {
	// Navigate loads the given URL and blocks until the page load completes
	// or the configured page load timeout elapses.
	Navigate(ctx context.Context, url string) error

	// HTML returns a snapshot of the current document markup.
	HTML(ctx context.Context) (string, error)

	// ScrollBy scrolls the viewport down by the given number of pixels.
	ScrollBy(ctx context.Context, pixels int) error

	// ScrollToBottom scrolls the viewport to the end of the document.
	ScrollToBottom(ctx context.Context) error

	// WaitVisible blocks until an element matching selector is visible. It
	// reports false when the timeout elapses first; the error is non-nil
	// only on cancellation or a lost session.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error)

	// Sleep pauses between browser operations, returning early with the
	// context error when ctx is cancelled.
	Sleep(ctx context.Context, d time.Duration) error

	// Close releases the browser and all session resources.
	Close() error
}
