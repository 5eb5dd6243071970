package scraper

import (
	"net/url"
	"strings"
)

// resolveHref turns an href into an absolute URL. Fragment-only and
// javascript: links, and anything unparseable, resolve to "".
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	linkURL, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !linkURL.IsAbs() && base != nil {
		linkURL = base.ResolveReference(linkURL)
	}
	return linkURL.String()
}

// searchURL appends the keyword as the q parameter of base.
func searchURL(base, keyword string) string {
	return base + "?" + url.Values{"q": {keyword}}.Encode()
}

// resolveAnyHref makes href absolute the way a browser reports an anchor's
// href property: fragment-only links keep the page URL and other schemes such
// as javascript: are returned untouched. Only an empty href yields "".
func resolveAnyHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if base == nil {
		return href
	}
	if strings.HasPrefix(href, "#") {
		page := *base
		page.Fragment, page.RawFragment = "", ""
		return page.String() + href
	}

	linkURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(linkURL).String()
}
