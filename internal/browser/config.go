// Package browser drives headless Chrome through chromedp.
//
// A Session is one browser process with one tab. Sessions are handed out by a
// Pool which bounds how many run at once; callers should prefer Pool.With so
// the process is torn down on every path.
package browser

import (
	"time"
)

// Config holds configuration for launched browsers.
type Config struct {
	Headless          bool
	ChromePath        string // empty: auto-discover
	UserAgent         string
	WindowWidth       int
	WindowHeight      int
	Stealth           bool // inject the anti-detection script before each document
	NavigationTimeout time.Duration
	MaxSessions       int
	ScreenshotDir     string // debug screenshots on failure; empty disables
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		UserAgent:         defaultUserAgent,
		WindowWidth:       1920,
		WindowHeight:      1080,
		Stealth:           true,
		NavigationTimeout: 30 * time.Second,
		MaxSessions:       2,
	}
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
