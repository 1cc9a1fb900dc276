package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	browserconfig "github.com/zcrawl/zcrawl/internal/config/browser"
	"github.com/zcrawl/zcrawl/internal/logger"
)

// ChromeSession drives a Chrome or Chromium instance over the DevTools
// protocol via chromedp.
type ChromeSession struct {
	cfg    *browserconfig.Config
	logger logger.Interface

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

var _ Session = (*ChromeSession)(nil)

// NewChromeSession launches a browser with the configured flags and attaches
// a fresh automation tab. The caller owns the session and must Close it.
func NewChromeSession(cfg *browserconfig.Config, userAgent string, log logger.Interface) (*ChromeSession, error) {
	if cfg == nil {
		cfg = browserconfig.New()
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.DisableGPU {
		opts = append(opts, chromedp.DisableGPU)
	}
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			log.Error(fmt.Sprintf(format, args...))
		}))

	// An empty Run starts the browser process.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	log.Debug("Browser session started",
		"headless", cfg.Headless,
		"window_width", cfg.WindowWidth,
		"window_height", cfg.WindowHeight)

	return &ChromeSession{
		cfg:         cfg,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Navigate loads url, honoring the configured page load timeout.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, s.cfg.PageLoadTimeout, chromedp.Navigate(url))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil || errors.Is(err, ErrSessionLost):
		return err
	default:
		return fmt.Errorf("navigate %s: %w: %w", url, ErrNavigation, err)
	}
}

// HTML returns the current document markup.
func (s *ChromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, s.cfg.PageLoadTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	switch {
	case err == nil:
		return html, nil
	case ctx.Err() != nil || errors.Is(err, ErrSessionLost):
		return "", err
	default:
		return "", fmt.Errorf("document snapshot: %w", err)
	}
}

// ScrollBy scrolls the viewport down by pixels.
func (s *ChromeSession) ScrollBy(ctx context.Context, pixels int) error {
	js := fmt.Sprintf("window.scrollBy(0, %d)", pixels)
	if err := s.run(ctx, s.cfg.PageLoadTimeout, chromedp.Evaluate(js, nil)); err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrSessionLost) {
			return err
		}
		return fmt.Errorf("scroll by %d: %w", pixels, err)
	}
	return nil
}

// ScrollToBottom scrolls the viewport to the end of the document.
func (s *ChromeSession) ScrollToBottom(ctx context.Context) error {
	const js = "window.scrollTo(0, document.body.scrollHeight)"
	if err := s.run(ctx, s.cfg.PageLoadTimeout, chromedp.Evaluate(js, nil)); err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrSessionLost) {
			return err
		}
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return nil
}

// WaitVisible waits until an element matching selector is visible, reporting
// false when timeout elapses first.
func (s *ChromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	err := s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return false, nil
	case ctx.Err() != nil || errors.Is(err, ErrSessionLost):
		return false, err
	default:
		return false, fmt.Errorf("wait visible %q: %w", selector, err)
	}
}

// Sleep pauses between browser operations.
func (s *ChromeSession) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close shuts the browser down and releases all session resources.
func (s *ChromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	s.logger.Debug("Browser session closed")
	return nil
}

// run executes actions against the session, bounded by timeout and the
// caller's context. The sentinel classification of timeouts is left to the
// calling operation.
func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionLost, err)
	}

	runCtx := s.ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case s.ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrSessionLost, err)
	default:
		return err
	}
}
