// Package scraper searches social-media sites through a browser page and
// turns the rendered result cards into records.
//
// Each platform is a short script over a browser.Page: navigate, optionally
// authenticate, scroll to trigger lazy loading, snapshot the DOM, then run
// per-field extractors over every result container. Field extractors are
// independent of each other so a DOM change that breaks one column leaves
// the rest of the row intact.
package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/jmylchreest/socialscout/internal/browser"
)

var (
	// ErrEmptyKeyword is returned when the search keyword is blank.
	ErrEmptyKeyword = errors.New("keyword is required")
	// ErrUnknownPlatform is returned for a platform ID with no scraper.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Platform runs a keyword search on one site.
type Platform interface {
	// ID is the lowercase route name, e.g. "tiktok".
	ID() string
	// Name is the display name used in responses, e.g. "TikTok".
	Name() string
	// Search drives page and returns the records in discovery order,
	// duplicates included.
	Search(ctx context.Context, page browser.Page, keyword string) ([]Record, error)
}

// Options holds the timing and scrolling knobs shared by the platforms.
type Options struct {
	InitialWait    time.Duration // settle time after the first navigation
	FeedScrolls    int           // full-height scrolls before reading results
	ScrollPause    time.Duration // pause after each scroll
	ScrollStep     int           // pixels per incremental scroll
	MaxScrollTries int           // upper bound on scroll-and-read iterations
	WaitTimeout    time.Duration // explicit wait for result containers
	CookieFile     string        // pre-captured session cookies, optional
}

// DefaultOptions returns the timings the target sites tolerate well.
func DefaultOptions() Options {
	return Options{
		InitialWait:    4 * time.Second,
		FeedScrolls:    2,
		ScrollPause:    1500 * time.Millisecond,
		ScrollStep:     1500,
		MaxScrollTries: 4,
		WaitTimeout:    10 * time.Second,
		CookieFile:     "fb_cookies.json",
	}
}

// sleep waits for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
