package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmylchreest/socialscout/internal/browser"
)

// PageRunner hands out a browser page for the duration of fn and takes it
// back afterwards. *browser.Pool implements it.
type PageRunner interface {
	With(ctx context.Context, fn func(browser.Page) error) error
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	RequestTimeout time.Duration // overall bound per search, 0 for none
	ScreenshotDir  string        // where to drop a screenshot when a search fails
}

// Service runs searches on registered platforms, one pooled page per search.
type Service struct {
	runner    PageRunner
	platforms map[string]Platform
	config    ServiceConfig
	log       *slog.Logger
}

// NewService creates a Service over the given platforms.
func NewService(runner PageRunner, cfg ServiceConfig, log *slog.Logger, platforms ...Platform) *Service {
	byID := make(map[string]Platform, len(platforms))
	for _, p := range platforms {
		byID[p.ID()] = p
	}
	return &Service{
		runner:    runner,
		platforms: byID,
		config:    cfg,
		log:       log,
	}
}

// Platforms returns the registered platforms ordered by ID.
func (s *Service) Platforms() []Platform {
	out := make([]Platform, 0, len(s.platforms))
	for _, p := range s.platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Platform looks up a platform by ID.
func (s *Service) Platform(id string) (Platform, bool) {
	p, ok := s.platforms[strings.ToLower(id)]
	return p, ok
}

// Search runs keyword on the platform with the given ID and returns the
// de-duplicated table. The page is released on every path.
func (s *Service) Search(ctx context.Context, platformID, keyword string) (Table, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Table{}, ErrEmptyKeyword
	}
	p, ok := s.Platform(platformID)
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platformID)
	}

	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	var records []Record
	err := s.runner.With(ctx, func(page browser.Page) error {
		var err error
		records, err = p.Search(ctx, page, keyword)
		if err != nil {
			s.saveScreenshot(ctx, page, p.ID())
		}
		return err
	})
	if err != nil {
		s.log.Error("search failed", "platform", p.ID(), "keyword", keyword, "error", err)
		return Table{}, err
	}

	unique := Dedupe(records)
	s.log.Info("search complete",
		"platform", p.ID(),
		"keyword", keyword,
		"found", len(records),
		"unique", len(unique),
		"duration", time.Since(start).Round(time.Millisecond))

	return Table{Platform: p.Name(), Keyword: keyword, Records: unique}, nil
}

// saveScreenshot writes a debug screenshot of page when configured.
func (s *Service) saveScreenshot(ctx context.Context, page browser.Page, platformID string) {
	if s.config.ScreenshotDir == "" {
		return
	}
	// The request context may already be done; the capture has its own bound.
	shot, err := page.Screenshot(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Debug("no debug screenshot", "error", err)
		return
	}
	if err := os.MkdirAll(s.config.ScreenshotDir, 0o755); err != nil {
		s.log.Warn("failed to create screenshot dir", "dir", s.config.ScreenshotDir, "error", err)
		return
	}
	path := filepath.Join(s.config.ScreenshotDir, fmt.Sprintf("%s-%d.png", platformID, time.Now().UnixNano()))
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		s.log.Warn("failed to write screenshot", "path", path, "error", err)
		return
	}
	s.log.Info("debug screenshot saved", "path", path)
}
