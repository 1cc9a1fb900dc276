package browser

import "errors"

var (
	// ErrNavigation is returned when a page fails to load within the page
	// load timeout or the target cannot be reached.
	ErrNavigation = errors.New("navigation failed")

	// ErrWaitTimeout is returned when an awaited element never becomes
	// visible within its timeout.
	ErrWaitTimeout = errors.New("wait for element timed out")

	// ErrSessionLost is returned when the browser process or the automation
	// connection is gone. A lost session is not recoverable.
	ErrSessionLost = errors.New("browser session lost")
)
