package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoanosis/scraperd/models"
)

// stubScraper returns a canned response and records the request it saw.
type stubScraper struct {
	resp *models.ScrapeResponse
	got  *models.ScrapeRequest
}

func (s *stubScraper) Scrape(_ context.Context, req *models.ScrapeRequest) *models.ScrapeResponse {
	s.got = req
	return s.resp
}

func newScrapeRouter(stub *stubScraper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/scrape", Scrape(stub))
	return r
}

func doScrape(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScrapeHandlerSuccess(t *testing.T) {
	stub := &stubScraper{resp: models.OK("Extracted article text here.", 4)}
	r := newScrapeRouter(stub)

	w := doScrape(t, r, `{"url": "https://example.com/article", "timeout": 5000}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.got)
	assert.Equal(t, "https://example.com/article", stub.got.URL)
	assert.Equal(t, 5000, stub.got.Timeout)

	var resp models.ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Content)
	assert.Equal(t, "Extracted article text here.", *resp.Content)
	assert.Equal(t, 4, resp.WordCount)
	assert.Nil(t, resp.Error)
}

func TestScrapeHandlerNullFieldsInJSON(t *testing.T) {
	stub := &stubScraper{resp: models.Fail(models.NewScrapeError(
		models.ErrCodeTimeout, "page did not load within the request timeout", nil,
	))}
	r := newScrapeRouter(stub)

	w := doScrape(t, r, `{"url": "https://example.com"}`)

	// Failed responses serialize content as an explicit null, not omitted.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "null", string(raw["content"]))
	assert.Equal(t, "0", string(raw["word_count"]))
	assert.Contains(t, string(raw["error"]), models.ErrCodeTimeout)
}

func TestScrapeHandlerBadJSON(t *testing.T) {
	stub := &stubScraper{resp: models.OK("unused", 1)}
	r := newScrapeRouter(stub)

	w := doScrape(t, r, `{"url": 42`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.got, "malformed body must not reach the engine")

	var resp models.ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.ErrCode())
}

func TestScrapeHandlerMissingURL(t *testing.T) {
	stub := &stubScraper{resp: models.OK("unused", 1)}
	r := newScrapeRouter(stub)

	w := doScrape(t, r, `{"timeout": 5000}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.got)
}

func TestScrapeHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeExtractionFailed, http.StatusNotFound},
		{models.ErrCodeNetwork, http.StatusBadGateway},
		{models.ErrCodeRateLimited, http.StatusBadGateway},
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeBrowserCrash, http.StatusInternalServerError},
		{models.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			stub := &stubScraper{resp: models.Fail(models.NewScrapeError(tt.code, "boom", nil))}
			w := doScrape(t, newScrapeRouter(stub), `{"url": "https://example.com"}`)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
