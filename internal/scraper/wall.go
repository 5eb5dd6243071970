package scraper

import "strings"

// detectWall reports whether a page snapshot looks like a login wall or a bot
// challenge rather than search results. It returns "" for a normal page.
func detectWall(html string) string {
	lower := strings.ToLower(html)

	switch {
	case strings.Contains(lower, "captcha-verify") ||
		strings.Contains(lower, "g-recaptcha") ||
		strings.Contains(lower, "hcaptcha.com"):
		return "captcha"
	case strings.Contains(lower, "/checkpoint/"):
		return "checkpoint"
	case strings.Contains(lower, `id="login_form"`) ||
		strings.Contains(lower, `data-testid="royal_login_form"`) ||
		strings.Contains(lower, `data-e2e="login-modal"`):
		return "login"
	}
	return ""
}
