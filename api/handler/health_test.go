package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoanosis/scraperd/models"
)

type stubPool struct {
	stats models.PoolStats
}

func (s *stubPool) Stats() models.PoolStats { return s.stats }

func getJSON(t *testing.T, r *gin.Engine, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	return w.Code
}

func TestHealthHealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(&stubPool{stats: models.PoolStats{
		MaxPages:    10,
		ActivePages: 3,
		Acquired:    42,
	}}, time.Now().Add(-90*time.Second)))

	var resp models.HealthResponse
	code := getJSON(t, r, "/health", &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 10, resp.PoolStats.MaxPages)
	assert.Equal(t, int64(42), resp.PoolStats.Acquired)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthDegradedWhenPoolSaturated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(&stubPool{stats: models.PoolStats{
		MaxPages:    10,
		ActivePages: 9,
	}}, time.Now()))

	var resp models.HealthResponse
	code := getJSON(t, r, "/health", &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", resp.Status)
}

func TestRootBanner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Root())

	var resp models.RootResponse
	code := getJSON(t, r, "/", &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "scraperd", resp.Service)
	assert.Equal(t, "running", resp.Status)
	assert.Equal(t, Version, resp.Version)
}
