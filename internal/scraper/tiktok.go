package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/socialscout/internal/browser"
)

// TikTok searches tiktok.com videos.
type TikTok struct {
	opts Options
	log  *slog.Logger
}

var _ Platform = (*TikTok)(nil)

// NewTikTok creates the TikTok scraper.
func NewTikTok(opts Options, log *slog.Logger) *TikTok {
	return &TikTok{opts: opts, log: log.With("platform", "tiktok")}
}

func (t *TikTok) ID() string   { return "tiktok" }
func (t *TikTok) Name() string { return "TikTok" }

// tiktokLabel is the red_social value of every TikTok record.
const tiktokLabel = "tiktok"

// Search loads the search page, scrolls the feed a fixed number of times and
// extracts every result card.
func (t *TikTok) Search(ctx context.Context, page browser.Page, keyword string) ([]Record, error) {
	target := searchURL(tiktokSearchURL, keyword)
	t.log.Info("scraping", "keyword", keyword, "url", target)

	if err := page.Navigate(ctx, target); err != nil {
		return nil, err
	}
	if err := sleep(ctx, t.opts.InitialWait); err != nil {
		return nil, err
	}

	for i := 0; i < t.opts.FeedScrolls; i++ {
		if err := page.ScrollToBottom(ctx); err != nil {
			return nil, err
		}
		if err := sleep(ctx, t.opts.ScrollPause); err != nil {
			return nil, err
		}
	}

	if err := page.WaitFor(ctx, browser.CSS(tiktokContainer), t.opts.WaitTimeout); err != nil {
		return nil, fmt.Errorf("no search results: %w", err)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	base := target
	if loc, err := page.URL(ctx); err == nil && loc != "" {
		base = loc
	}

	t.log.Debug("page snapshot", "size", humanize.Bytes(uint64(len(html))))
	if wall := detectWall(html); wall != "" {
		t.log.Warn("search page looks blocked", "type", wall)
	}

	return t.Extract(html, base, keyword)
}

// Extract parses a search page snapshot. Cards without a tiktok.com link are
// skipped; every other field falls back to "" on its own.
func (t *TikTok) Extract(html, pageURL, keyword string) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}
	base, _ := url.Parse(pageURL)

	boxes := doc.Find(tiktokContainer)
	t.log.Info("found videos", "count", boxes.Length())

	var records []Record
	boxes.Each(func(i int, box *goquery.Selection) {
		link := t.field(i, "url", box, func(box *goquery.Selection) string {
			return tiktokVideoURL(box, base)
		})
		if link == "" || !strings.Contains(link, tiktokDomain) {
			t.log.Warn("video without a usable link", "index", i+1, "href", link)
			return
		}

		records = append(records, Record{
			Platform:    tiktokLabel,
			Keyword:     keyword,
			URL:         link,
			Username:    t.field(i, "usuario_tiktok", box, tiktokUsername),
			DisplayName: t.field(i, "nombre_real", box, tiktokDisplayName),
			Title:       t.field(i, "titulo", box, tiktokTitle),
			Caption:     t.field(i, "descripcion", box, tiktokCaptionText),
			Likes:       t.field(i, "likes", box, tiktokLikes),
			PublishedAt: t.field(i, "fecha_publicacion", box, tiktokPublishedAt),
			Video:       true,
		})
	})

	return records, nil
}

// field runs one extractor, turning a panic into an empty value.
func (t *TikTok) field(index int, name string, box *goquery.Selection, extract func(*goquery.Selection) string) (value string) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Debug("field extraction failed", "index", index+1, "field", name, "error", r)
			value = ""
		}
	}()
	return extract(box)
}

// tiktokVideoURL is the card's first link, made absolute.
func tiktokVideoURL(box *goquery.Selection, base *url.URL) string {
	href, ok := box.Find("a").First().Attr("href")
	if !ok {
		return ""
	}
	return resolveHref(base, href)
}

func tiktokCaptionText(box *goquery.Selection) string {
	return strings.TrimSpace(box.Find(tiktokCaption).First().Text())
}

// tiktokTitle is the free text before the first hashtag. Captions made only
// of hashtags have no title.
func tiktokTitle(box *goquery.Selection) string {
	caption := tiktokCaptionText(box)
	if caption == "" || strings.HasPrefix(caption, "#") {
		return ""
	}
	title, _, _ := strings.Cut(caption, "#")
	return strings.TrimSpace(title)
}

// tiktokUsername is the handle from the profile link, without the @.
func tiktokUsername(box *goquery.Selection) string {
	href, ok := box.Find(tiktokProfileLink).First().Attr("href")
	if !ok {
		return ""
	}
	i := strings.LastIndex(href, "/@")
	if i < 0 {
		return ""
	}
	handle := href[i+2:]
	if j := strings.IndexAny(handle, "/?#"); j >= 0 {
		handle = handle[:j]
	}
	return handle
}

// tiktokDisplayName comes from the profile link's aria-label and falls back
// to the handle when the label is missing or unexpected. The video link also
// matches the profile selector, so only labelled links are considered.
func tiktokDisplayName(box *goquery.Selection) string {
	label, _ := box.Find(tiktokProfileLink + "[aria-label]").First().Attr("aria-label")
	if strings.Contains(label, tiktokProfileLabel) {
		return strings.TrimSpace(strings.ReplaceAll(label, tiktokProfileLabel, ""))
	}
	return tiktokUsername(box)
}

func tiktokPublishedAt(box *goquery.Selection) string {
	return strings.TrimSpace(box.Find(tiktokTimeTag).First().Text())
}

func tiktokLikes(box *goquery.Selection) string {
	return strings.TrimSpace(box.Find(tiktokViews).First().Text())
}
