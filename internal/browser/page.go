package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrWaitTimeout is returned by Page.WaitFor when nothing matched in time.
	ErrWaitTimeout = errors.New("timed out waiting for elements")
	// ErrPoolClosed is returned by Pool.Acquire after Close.
	ErrPoolClosed = errors.New("browser pool is closed")
)

// Selector addresses elements on a page, either by CSS or by XPath.
type Selector struct {
	Query string
	XPath bool
}

// CSS returns a CSS selector.
func CSS(q string) Selector { return Selector{Query: q} }

// XPath returns an XPath selector.
func XPath(q string) Selector { return Selector{Query: q, XPath: true} }

func (s Selector) String() string {
	if s.XPath {
		return "xpath:" + s.Query
	}
	return s.Query
}

// Cookie is a browser cookie to inject into a page.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	Expiry   float64 // seconds since epoch, 0 for a session cookie
	SameSite string  // Strict, Lax or None
}

// Page is a single browser tab.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	ScrollToBottom(ctx context.Context) error
	ScrollBy(ctx context.Context, dy int) error

	// WaitFor blocks until sel matches at least one element. It returns an
	// error wrapping ErrWaitTimeout when timeout elapses first.
	WaitFor(ctx context.Context, sel Selector, timeout time.Duration) error

	// HTML returns the serialized DOM of the whole document.
	HTML(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	SetCookie(ctx context.Context, c Cookie) error
	Screenshot(ctx context.Context) ([]byte, error)

	// Close tears the browser down. It is safe to call more than once.
	Close() error
}
