package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jmylchreest/socialscout/internal/browser"
)

// fileCookie is one entry of a cookie dump. Both the WebDriver export format
// (expiry) and the browser-extension format (expirationDate) are accepted.
type fileCookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Secure         bool    `json:"secure"`
	HTTPOnly       bool    `json:"httpOnly"`
	Expiry         float64 `json:"expiry"`
	ExpirationDate float64 `json:"expirationDate"`
	SameSite       string  `json:"sameSite"`
}

// LoadCookies reads a JSON array of cookies from path. A missing file is
// reported with an error wrapping fs.ErrNotExist.
func LoadCookies(path string) ([]browser.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []fileCookie
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid cookie file %s: %w", path, err)
	}

	cookies := make([]browser.Cookie, 0, len(raw))
	for _, c := range raw {
		expiry := c.Expiry
		if expiry == 0 {
			expiry = c.ExpirationDate
		}
		cookies = append(cookies, browser.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			Expiry:   expiry,
			SameSite: normalizeSameSite(c.SameSite),
		})
	}
	return cookies, nil
}

// normalizeSameSite keeps Strict, Lax and None and maps anything else,
// including a missing value, to Lax.
func normalizeSameSite(v string) string {
	switch v {
	case "Strict", "Lax", "None":
		return v
	}
	return "Lax"
}

// injectCookies adds the cookies from path to page one by one and reloads
// it. It never fails the search: a missing or broken file leaves the page
// unauthenticated, and a rejected cookie is skipped.
func injectCookies(ctx context.Context, page browser.Page, path string, log *slog.Logger) {
	if path == "" {
		return
	}

	cookies, err := LoadCookies(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("no cookie file, continuing without a session", "path", path)
		return
	}
	if err != nil {
		log.Warn("failed to load cookies", "path", path, "error", err)
		return
	}

	added := 0
	for _, c := range cookies {
		if err := page.SetCookie(ctx, c); err != nil {
			log.Warn("failed to add cookie", "name", c.Name, "error", err)
			continue
		}
		added++
	}
	log.Debug("cookies injected", "added", added, "total", len(cookies))

	if err := page.Reload(ctx); err != nil {
		log.Warn("failed to reload after injecting cookies", "error", err)
	}
}
