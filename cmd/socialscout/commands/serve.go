package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/socialscout/internal/logger"
	"github.com/jmylchreest/socialscout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search endpoints over HTTP",
	Long: `Start the HTTP server.

Routes:
  GET /tiktok?q=<keyword>
  GET /facebook?q=<keyword>
  GET /health
  GET /version

The port can also be set with the PORT environment variable.`,
	PreRun: func(cmd *cobra.Command, args []string) { bindFlags(cmd, serveFlagKeys) },
	RunE:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("host", "0.0.0.0", "listen host")
	flags.IntP("port", "p", 8080, "listen port")
	flags.Int("max-sessions", 2, "max concurrent browser sessions")
	flags.String("cookies", "fb_cookies.json", "Facebook session cookie file")
	flags.String("screenshot-dir", "", "write a screenshot here when a search fails")
	flags.Duration("request-timeout", 2*time.Minute, "overall time limit per search")
}

var serveFlagKeys = map[string]string{
	"host":            "server.host",
	"port":            "server.port",
	"max-sessions":    "browser.max_sessions",
	"cookies":         "scrape.cookie_file",
	"screenshot-dir":  "browser.screenshot_dir",
	"request-timeout": "scrape.request_timeout",
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, pool := newService(cfg)
	defer pool.Close()

	srv := server.NewHTTPServer(server.Config{
		Addr:      cfg.Server.Addr(),
		Creator:   cfg.Server.Creator,
		Platforms: platformIDs(svc),
		Pool:      pool,
	}, svc, logger.Component("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
