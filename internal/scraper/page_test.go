package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmylchreest/socialscout/internal/browser"
)

// fakePage is a scripted browser.Page.
type fakePage struct {
	url       string
	snapshots []string // HTML returned by successive HTML calls; the last one repeats
	waitErrs  []error  // errors returned by successive WaitFor calls; nil afterwards
	navErr    error
	cookieErr map[string]error

	navigated   []string
	waits       []browser.Selector
	htmlCalls   int
	scrollsDown int
	scrolledBy  []int
	reloads     int
	cookies     []browser.Cookie
	screenshots int
	closed      bool
}

var _ browser.Page = (*fakePage)(nil)

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.navigated = append(p.navigated, url)
	p.url = url
	return nil
}

func (p *fakePage) Reload(ctx context.Context) error {
	p.reloads++
	return nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	p.scrollsDown++
	return nil
}

func (p *fakePage) ScrollBy(ctx context.Context, dy int) error {
	p.scrolledBy = append(p.scrolledBy, dy)
	return nil
}

func (p *fakePage) WaitFor(ctx context.Context, sel browser.Selector, timeout time.Duration) error {
	i := len(p.waits)
	p.waits = append(p.waits, sel)
	if i < len(p.waitErrs) {
		return p.waitErrs[i]
	}
	return nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if len(p.snapshots) == 0 {
		return "", errors.New("no snapshot")
	}
	i := p.htmlCalls
	if i >= len(p.snapshots) {
		i = len(p.snapshots) - 1
	}
	p.htmlCalls++
	return p.snapshots[i], nil
}

func (p *fakePage) URL(ctx context.Context) (string, error) {
	return p.url, nil
}

func (p *fakePage) SetCookie(ctx context.Context, c browser.Cookie) error {
	if err := p.cookieErr[c.Name]; err != nil {
		return err
	}
	p.cookies = append(p.cookies, c)
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	p.screenshots++
	return []byte("png"), nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// fakeRunner hands the same page to every With call.
type fakeRunner struct {
	page  *fakePage
	calls int
}

func (r *fakeRunner) With(ctx context.Context, fn func(browser.Page) error) error {
	r.calls++
	defer r.page.Close()
	return fn(r.page)
}

// readTestdata reads a file from the testdata directory
func readTestdata(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return string(data)
}

// fastOptions removes every pause so tests run instantly.
func fastOptions() Options {
	opts := DefaultOptions()
	opts.InitialWait = 0
	opts.ScrollPause = 0
	opts.WaitTimeout = time.Millisecond
	opts.CookieFile = ""
	return opts
}
