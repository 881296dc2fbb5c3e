package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autoanosis/scraperd/models"
)

// Version is the service version reported by the root and health endpoints.
const Version = "0.1.0"

// PoolReporter exposes browser pool statistics for health reporting.
type PoolReporter interface {
	Stats() models.PoolStats
}

// Root returns the handler for GET /, a plain service banner.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.RootResponse{
			Service: "scraperd",
			Status:  "running",
			Version: Version,
		})
	}
}

// Health returns the handler for GET /health.
//
// Reports pool utilisation and degrades status when > 80% of pages are active.
func Health(pool PoolReporter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := pool.Stats()

		status := "healthy"
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			PoolStats: stats,
			Version:   Version,
		})
	}
}
