package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Session is a Page backed by its own Chrome process.
type Session struct {
	config Config
	log    *slog.Logger

	tabCtx    context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

var _ Page = (*Session)(nil)

// Launch starts a browser and opens one tab. The browser lives until Close,
// independent of ctx, which only bounds the startup.
func Launch(ctx context.Context, cfg Config, log *slog.Logger) (*Session, error) {
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = DefaultConfig().NavigationTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(cfg)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		config: cfg,
		log:    log,
		tabCtx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}

	// The first Run allocates the browser. It must run on tabCtx itself: a
	// derived context would own the browser and kill it when it ends.
	stop := context.AfterFunc(ctx, s.cancel)
	err := chromedp.Run(tabCtx)
	if !stop() || err != nil {
		s.cancel()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if cfg.Stealth {
		if err := s.run(ctx, injectStealthScript()); err != nil {
			s.cancel()
			return nil, fmt.Errorf("failed to inject stealth script: %w", err)
		}
	}

	log.Debug("browser session started", "headless", cfg.Headless, "stealth", cfg.Stealth)
	return s, nil
}

// Launcher adapts Launch to a Pool.
func Launcher(cfg Config, log *slog.Logger) LaunchFunc {
	if cfg.ChromePath == "" {
		cfg.ChromePath = FindChromePath(log)
	}
	return func(ctx context.Context) (Page, error) {
		s, err := Launch(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// run executes actions on the tab, aborting when either ctx or the session ends.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.config.NavigationTimeout)
	defer cancel()

	s.log.Debug("navigating", "url", url)
	if err := s.run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) Reload(ctx context.Context) error {
	navCtx, cancel := context.WithTimeout(ctx, s.config.NavigationTimeout)
	defer cancel()

	if err := s.run(navCtx, chromedp.Reload()); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (s *Session) ScrollToBottom(ctx context.Context) error {
	var height float64
	err := s.run(ctx, chromedp.Evaluate(
		`window.scrollTo(0, document.body.scrollHeight); document.body.scrollHeight`, &height))
	if err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	s.log.Debug("scrolled to bottom", "height", height)
	return nil
}

func (s *Session) ScrollBy(ctx context.Context, dy int) error {
	var y float64
	err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(`window.scrollBy(0, %d); window.scrollY`, dy), &y))
	if err != nil {
		return fmt.Errorf("scroll by %d: %w", dy, err)
	}
	s.log.Debug("scrolled", "by", dy, "y", y)
	return nil
}

func (s *Session) WaitFor(ctx context.Context, sel Selector, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	by := chromedp.ByQuery
	if sel.XPath {
		by = chromedp.BySearch
	}

	err := s.run(waitCtx, chromedp.WaitReady(sel.Query, by))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s after %s", ErrWaitTimeout, sel, timeout)
	}
	return fmt.Errorf("wait for %s: %w", sel, err)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (s *Session) URL(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

// SetCookie adds one cookie. Cookies without a domain are scoped to the
// current page URL.
func (s *Session) SetCookie(ctx context.Context, c Cookie) error {
	param := cookieParam(c)
	if param.Domain == "" {
		loc, err := s.URL(ctx)
		if err != nil {
			return err
		}
		param.URL = loc
	}

	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies([]*network.CookieParam{param}).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("set cookie %q: %w", c.Name, err)
	}
	return nil
}

// cookieParam maps a Cookie onto the DevTools parameters. Unknown SameSite
// values are left unset and a zero expiry makes a session cookie.
func cookieParam(c Cookie) *network.CookieParam {
	param := &network.CookieParam{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
	}

	switch c.SameSite {
	case "Strict":
		param.SameSite = network.CookieSameSiteStrict
	case "Lax":
		param.SameSite = network.CookieSameSiteLax
	case "None":
		param.SameSite = network.CookieSameSiteNone
	}

	if c.Expiry > 0 {
		expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expiry), 0))
		param.Expires = &expires
	}
	if param.Path == "" {
		param.Path = "/"
	}
	return param
}

// Screenshot captures the viewport. It gives up after five seconds since the
// browser is usually in a bad state when this is called.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	captureCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var buf []byte
	if err := s.run(captureCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.log.Debug("browser session closed")
	})
	return nil
}
