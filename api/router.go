// Package api assembles the HTTP surface: routes, middleware, and the
// binding between gin and the scrape engine.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autoanosis/scraperd/api/handler"
	"github.com/autoanosis/scraperd/api/middleware"
	"github.com/autoanosis/scraperd/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	Scrape:  RateLimit
//
// Root and health endpoints sit outside the rate limiter so monitoring
// probes always work. The same handlers are also mounted under /api/v1
// for clients that prefer versioned paths.
func NewRouter(eng handler.Scraper, pool handler.PoolReporter, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.CORS())

	root := handler.Root()
	health := handler.Health(pool, startTime)
	scrape := handler.Scrape(eng)
	limited := middleware.RateLimit(cfg.RateLimit)

	r.GET("/", root)
	r.GET("/health", health)
	r.POST("/scrape", limited, scrape)

	v1 := r.Group("/api/v1")
	v1.GET("/health", health)
	v1.POST("/scrape", limited, scrape)

	return r
}
