// Package config resolves the socialscout settings from defaults, an optional
// YAML file, SOCIALSCOUT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/socialscout/internal/browser"
	"github.com/jmylchreest/socialscout/internal/scraper"
)

// EnvPrefix prefixes every environment override, e.g. SOCIALSCOUT_LOG_DEBUG.
const EnvPrefix = "SOCIALSCOUT"

// Config is the resolved configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Browser BrowserConfig `mapstructure:"browser"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	Creator         string        `mapstructure:"creator"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// BrowserConfig configures launched Chrome instances.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"`
	ChromePath        string        `mapstructure:"chrome_path"`
	UserAgent         string        `mapstructure:"user_agent"`
	WindowWidth       int           `mapstructure:"window_width" validate:"min=320"`
	WindowHeight      int           `mapstructure:"window_height" validate:"min=240"`
	Stealth           bool          `mapstructure:"stealth"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" validate:"gt=0"`
	MaxSessions       int           `mapstructure:"max_sessions" validate:"min=1"`
	ScreenshotDir     string        `mapstructure:"screenshot_dir"`
}

// ScrapeConfig configures the per-platform search routines.
type ScrapeConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	InitialWait    time.Duration `mapstructure:"initial_wait" validate:"gte=0"`
	FeedScrolls    int           `mapstructure:"feed_scrolls" validate:"gte=0"`
	ScrollPause    time.Duration `mapstructure:"scroll_pause" validate:"gte=0"`
	ScrollStep     int           `mapstructure:"scroll_step" validate:"min=1"`
	MaxScrollTries int           `mapstructure:"max_scroll_tries" validate:"min=1"`
	WaitTimeout    time.Duration `mapstructure:"wait_timeout" validate:"gt=0"`
	CookieFile     string        `mapstructure:"cookie_file"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
	Quiet bool `mapstructure:"quiet"`
	JSON  bool `mapstructure:"json"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	b := browser.DefaultConfig()
	s := scraper.DefaultOptions()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.creator", "Carlos Villena")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("browser.headless", b.Headless)
	v.SetDefault("browser.chrome_path", b.ChromePath)
	v.SetDefault("browser.user_agent", b.UserAgent)
	v.SetDefault("browser.window_width", b.WindowWidth)
	v.SetDefault("browser.window_height", b.WindowHeight)
	v.SetDefault("browser.stealth", b.Stealth)
	v.SetDefault("browser.navigation_timeout", b.NavigationTimeout)
	v.SetDefault("browser.max_sessions", b.MaxSessions)
	v.SetDefault("browser.screenshot_dir", b.ScreenshotDir)

	v.SetDefault("scrape.request_timeout", 2*time.Minute)
	v.SetDefault("scrape.initial_wait", s.InitialWait)
	v.SetDefault("scrape.feed_scrolls", s.FeedScrolls)
	v.SetDefault("scrape.scroll_pause", s.ScrollPause)
	v.SetDefault("scrape.scroll_step", s.ScrollStep)
	v.SetDefault("scrape.max_scroll_tries", s.MaxScrollTries)
	v.SetDefault("scrape.wait_timeout", s.WaitTimeout)
	v.SetDefault("scrape.cookie_file", s.CookieFile)

	v.SetDefault("log.debug", false)
	v.SetDefault("log.quiet", false)
	v.SetDefault("log.json", false)
}

// BindEnv enables SOCIALSCOUT_* overrides (dots become underscores) and the
// bare PORT variable used by container platforms.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Namespace(), formatValidationError(e)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// BrowserConfig returns the browser layer settings.
func (c *Config) BrowserConfig() browser.Config {
	b := c.Browser
	return browser.Config{
		Headless:          b.Headless,
		ChromePath:        b.ChromePath,
		UserAgent:         b.UserAgent,
		WindowWidth:       b.WindowWidth,
		WindowHeight:      b.WindowHeight,
		Stealth:           b.Stealth,
		NavigationTimeout: b.NavigationTimeout,
		MaxSessions:       b.MaxSessions,
		ScreenshotDir:     b.ScreenshotDir,
	}
}

// ScrapeOptions returns the platform routine settings.
func (c *Config) ScrapeOptions() scraper.Options {
	s := c.Scrape
	return scraper.Options{
		InitialWait:    s.InitialWait,
		FeedScrolls:    s.FeedScrolls,
		ScrollPause:    s.ScrollPause,
		ScrollStep:     s.ScrollStep,
		MaxScrollTries: s.MaxScrollTries,
		WaitTimeout:    s.WaitTimeout,
		CookieFile:     s.CookieFile,
	}
}

// ServiceConfig returns the search service settings.
func (c *Config) ServiceConfig() scraper.ServiceConfig {
	return scraper.ServiceConfig{
		RequestTimeout: c.Scrape.RequestTimeout,
		ScreenshotDir:  c.Browser.ScreenshotDir,
	}
}
