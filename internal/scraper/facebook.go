package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"

	"github.com/jmylchreest/socialscout/internal/browser"
)

// Facebook searches facebook.com videos. Results are only reliable with a
// logged-in session, so pre-captured cookies are injected when available.
type Facebook struct {
	opts Options
	log  *slog.Logger
}

var _ Platform = (*Facebook)(nil)

// NewFacebook creates the Facebook scraper.
func NewFacebook(opts Options, log *slog.Logger) *Facebook {
	return &Facebook{opts: opts, log: log.With("platform", "facebook")}
}

func (f *Facebook) ID() string   { return "facebook" }
func (f *Facebook) Name() string { return "Facebook" }

const facebookLabel = "facebook meta"

// Search loads the search page, injects session cookies, then alternates
// between reading result cards and scrolling until either MaxScrollTries is
// reached or no cards show up within WaitTimeout.
func (f *Facebook) Search(ctx context.Context, page browser.Page, keyword string) ([]Record, error) {
	target := searchURL(facebookSearchURL, keyword)
	f.log.Info("scraping", "keyword", keyword, "url", target)

	if err := page.Navigate(ctx, target); err != nil {
		return nil, err
	}

	injectCookies(ctx, page, f.opts.CookieFile, f.log)

	var records []Record
	for try := 0; try < f.opts.MaxScrollTries; try++ {
		err := page.WaitFor(ctx, browser.XPath(facebookContainer), f.opts.WaitTimeout)
		if errors.Is(err, browser.ErrWaitTimeout) {
			f.log.Warn("timed out waiting for video results", "try", try+1)
			break
		}
		if err != nil {
			return nil, err
		}

		snapshot, err := page.HTML(ctx)
		if err != nil {
			return nil, err
		}
		base := target
		if loc, err := page.URL(ctx); err == nil && loc != "" {
			base = loc
		}

		f.log.Debug("page snapshot", "try", try+1, "size", humanize.Bytes(uint64(len(snapshot))))
		if wall := detectWall(snapshot); wall != "" {
			f.log.Warn("search page looks blocked", "type", wall)
		}

		batch, err := f.Extract(snapshot, base, keyword)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)

		if err := page.ScrollBy(ctx, f.opts.ScrollStep); err != nil {
			return nil, err
		}
		if err := sleep(ctx, f.opts.ScrollPause); err != nil {
			return nil, err
		}
	}

	return records, nil
}

// Extract parses a search page snapshot and returns one record per card
// that contains a link. Any href is accepted.
func (f *Facebook) Extract(snapshot, pageURL, keyword string) ([]Record, error) {
	doc, err := htmlquery.Parse(strings.NewReader(snapshot))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}
	boxes, err := htmlquery.QueryAll(doc, facebookContainer)
	if err != nil {
		return nil, fmt.Errorf("bad container selector: %w", err)
	}
	base, _ := url.Parse(pageURL)

	f.log.Info("found videos", "count", len(boxes))

	var records []Record
	for i, box := range boxes {
		href := facebookVideoURL(box, base)
		if href == "" {
			f.log.Warn("video without href", "index", i+1)
			continue
		}
		records = append(records, Record{
			Platform: facebookLabel,
			Keyword:  keyword,
			URL:      href,
		})
	}
	return records, nil
}

// facebookVideoURL is the card's first link with an href, made absolute.
// Unlike TikTok links, any href is kept.
func facebookVideoURL(box *html.Node, base *url.URL) string {
	link, err := htmlquery.Query(box, facebookLink)
	if err != nil || link == nil {
		return ""
	}
	return resolveAnyHref(base, htmlquery.SelectAttr(link, "href"))
}
