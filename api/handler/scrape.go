package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoanosis/scraperd/models"
)

// Scraper is the engine surface the handler depends on. Satisfied by
// *engine.Engine; narrowed to an interface so handler tests can stub it.
type Scraper interface {
	Scrape(ctx context.Context, req *models.ScrapeRequest) *models.ScrapeResponse
}

// Scrape returns the handler for POST /scrape.
//
// The engine owns the scrape contract (exactly one response, all failures
// folded in), so the handler only binds the request, runs the engine, and
// maps the error code to an HTTP status.
func Scrape(eng Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail(models.NewScrapeError(
				models.ErrCodeInvalidInput,
				err.Error(),
				err,
			)))
			return
		}

		resp := eng.Scrape(c.Request.Context(), &req)
		c.JSON(statusFor(resp), resp)
	}
}

// statusFor translates a response's error code to an HTTP status.
// Upstream blocking and network faults both surface as 502: from the
// client's perspective this service is a gateway to the target site.
func statusFor(resp *models.ScrapeResponse) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.ErrCode() {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case models.ErrCodeExtractionFailed:
		return http.StatusNotFound
	case models.ErrCodeNetwork, models.ErrCodeRateLimited:
		return http.StatusBadGateway
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
