package commands

import (
	"github.com/jmylchreest/socialscout/internal/browser"
	"github.com/jmylchreest/socialscout/internal/config"
	"github.com/jmylchreest/socialscout/internal/logger"
	"github.com/jmylchreest/socialscout/internal/scraper"
)

// newService wires the browser pool and both platforms into a search service.
// The caller owns the pool and must close it.
func newService(cfg *config.Config) (*scraper.Service, *browser.Pool) {
	bcfg := cfg.BrowserConfig()
	opts := cfg.ScrapeOptions()

	pool := browser.NewPool(bcfg.MaxSessions,
		browser.Launcher(bcfg, logger.Component("browser")),
		logger.Component("pool"))

	log := logger.Component("scraper")
	svc := scraper.NewService(pool, cfg.ServiceConfig(), log,
		scraper.NewTikTok(opts, log),
		scraper.NewFacebook(opts, log),
	)
	return svc, pool
}

// platformIDs lists the IDs registered on svc.
func platformIDs(svc *scraper.Service) []string {
	platforms := svc.Platforms()
	ids := make([]string, 0, len(platforms))
	for _, p := range platforms {
		ids = append(ids, p.ID())
	}
	return ids
}
