package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultSettleDelay is how long a session waits after each navigation
// or click for the portal's scripts to render the page. The site builds
// its panels client-side, so reading the DOM immediately after a click
// sees the previous page.
const DefaultSettleDelay = 2 * time.Second

// Options configure a Session.
type Options struct {
	// Headless runs Chrome without a window. Production runs headless;
	// turning it off helps when the site changes and the walk breaks.
	Headless bool
	// ExecPath points at the Chrome binary. Empty lets chromedp search
	// the usual install locations.
	ExecPath string
	// SettleDelay overrides DefaultSettleDelay.
	SettleDelay time.Duration
	// ActionTimeout caps each navigate, click, or read. Zero means no
	// per-action cap; the session context still bounds the whole run.
	ActionTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	return o
}

// Session is a live Chrome session. It satisfies the scraper's Browser
// interface. Sessions are not safe for concurrent use; the scraper
// drives one page at a time.
type Session struct {
	ctx             context.Context
	cancelBrowser   context.CancelFunc
	cancelAllocator context.CancelFunc
	settle          time.Duration
	timeout         time.Duration
	closeOnce       sync.Once
}

// NewSession launches Chrome and returns a ready session. The session
// lives until Close or until ctx is cancelled, whichever comes first.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	allocatorOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.ExecPath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocatorCtx)

	// Run with no actions starts the browser eagerly so a missing or
	// broken Chrome install fails here, not mid-scrape.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAllocator()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Session{
		ctx:             browserCtx,
		cancelBrowser:   cancelBrowser,
		cancelAllocator: cancelAllocator,
		settle:          opts.SettleDelay,
		timeout:         opts.ActionTimeout,
	}, nil
}

// Close shuts Chrome down. It is safe to call more than once and after
// a failed run.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancelBrowser()
		s.cancelAllocator()
	})
}

// Navigate loads a URL and waits for the page to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url), chromedp.Sleep(s.settle)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Click clicks the first element matching the selector and waits for
// the resulting page to settle.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery), chromedp.Sleep(s.settle)); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// InnerHTML returns the inner HTML of the first element matching the
// selector, waiting for it to appear if the page is still rendering.
func (s *Session) InnerHTML(ctx context.Context, selector string) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.InnerHTML(selector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading %s: %w", selector, err)
	}
	return html, nil
}

// Back returns to the previous page in session history and waits for it
// to settle.
func (s *Session) Back(ctx context.Context) error {
	if err := s.run(ctx, chromedp.NavigateBack(), chromedp.Sleep(s.settle)); err != nil {
		return fmt.Errorf("navigating back: %w", err)
	}
	return nil
}

// run executes actions on the session's Chrome context, honoring the
// caller's context and the configured per-action timeout.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if s.timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}

	// chromedp actions only run on a chromedp context; relay the
	// caller's cancellation into it.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}
