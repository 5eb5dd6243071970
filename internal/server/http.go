// Package server exposes the search service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/socialscout/internal/browser"
	"github.com/jmylchreest/socialscout/internal/scraper"
	"github.com/jmylchreest/socialscout/internal/version"
)

// Searcher runs one keyword search on a platform. *scraper.Service
// implements it.
type Searcher interface {
	Search(ctx context.Context, platformID, keyword string) (scraper.Table, error)
}

// PoolStats reports browser pool usage. *browser.Pool implements it.
type PoolStats interface {
	Stats() browser.Stats
}

// Config configures the HTTP server.
type Config struct {
	Addr      string
	Creator   string    // echoed in the missing-parameter response
	Platforms []string  // one GET /<id> route per platform
	Pool      PoolStats // optional, reported by /health
}

type HTTPServer struct {
	server *http.Server
	log    *slog.Logger
}

// NewHTTPServer builds the router and the underlying http.Server.
func NewHTTPServer(cfg Config, searcher Searcher, log *slog.Logger) *HTTPServer {
	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}
		if cfg.Pool != nil {
			body["browsers"] = cfg.Pool.Stats()
		}
		c.JSON(http.StatusOK, body)
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})

	h := &searchHandler{searcher: searcher, creator: cfg.Creator, log: log}
	for _, id := range cfg.Platforms {
		router.GET("/"+id, h.handle(id))
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler returns the router, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.log.Info("starting HTTP server", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.log.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
