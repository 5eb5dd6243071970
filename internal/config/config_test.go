package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Server.Creator != "Carlos Villena" {
		t.Errorf("Creator = %q", cfg.Server.Creator)
	}
	if !cfg.Browser.Headless || cfg.Browser.MaxSessions != 2 {
		t.Errorf("Browser = %+v", cfg.Browser)
	}
	if cfg.Scrape.RequestTimeout != 2*time.Minute {
		t.Errorf("RequestTimeout = %v", cfg.Scrape.RequestTimeout)
	}

	opts := cfg.ScrapeOptions()
	if opts.MaxScrollTries != 4 || opts.WaitTimeout != 10*time.Second || opts.ScrollPause != 1500*time.Millisecond {
		t.Errorf("ScrapeOptions() = %+v", opts)
	}
	if opts.CookieFile != "fb_cookies.json" {
		t.Errorf("CookieFile = %q", opts.CookieFile)
	}
}

func TestLoad_PortEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("SOCIALSCOUT_BROWSER_MAX_SESSIONS", "5")
	t.Setenv("SOCIALSCOUT_SCRAPE_WAIT_TIMEOUT", "3s")
	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Browser.MaxSessions != 5 {
		t.Errorf("MaxSessions = %d, want 5", cfg.Browser.MaxSessions)
	}
	if cfg.Scrape.WaitTimeout != 3*time.Second {
		t.Errorf("WaitTimeout = %v, want 3s", cfg.Scrape.WaitTimeout)
	}
}

func TestLoad_File(t *testing.T) {
	v := newViper()
	v.SetConfigType("yaml")
	err := v.ReadConfig(strings.NewReader(`
server:
  port: 3000
  creator: equipo
browser:
  headless: false
  screenshot_dir: /tmp/shots
scrape:
  max_scroll_tries: 2
  cookie_file: ""
`))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Creator != "equipo" || cfg.Browser.Headless {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ScrapeOptions().MaxScrollTries != 2 || cfg.ScrapeOptions().CookieFile != "" {
		t.Errorf("ScrapeOptions() = %+v", cfg.ScrapeOptions())
	}
	if cfg.ServiceConfig().ScreenshotDir != "/tmp/shots" {
		t.Errorf("ServiceConfig() = %+v", cfg.ServiceConfig())
	}
	if cfg.BrowserConfig().WindowWidth != 1920 {
		t.Errorf("BrowserConfig() = %+v", cfg.BrowserConfig())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
		field string
	}{
		{"server.port", 0, "Port"},
		{"server.port", 70000, "Port"},
		{"browser.max_sessions", 0, "MaxSessions"},
		{"scrape.max_scroll_tries", 0, "MaxScrollTries"},
		{"scrape.wait_timeout", time.Duration(0), "WaitTimeout"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}
