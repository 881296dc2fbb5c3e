package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	challengeHTML := `<html><title>Just a moment...</title><body>Checking your browser before accessing the site.</body></html>`
	articleHTML := `<html><body><article><p>Plain article body.</p></article></body></html>`

	tests := []struct {
		name   string
		status int
		html   string
		want   Status
	}{
		{"200 with content", 200, articleHTML, StatusOK},
		{"204 is still 2xx", 204, "", StatusOK},
		{"429 always blocked", 429, articleHTML, StatusBlocked},
		{"503 with challenge markers", 503, challengeHTML, StatusBlocked},
		{"503 without markers", 503, articleHTML, StatusNetworkError},
		{"404 not found", 404, articleHTML, StatusNetworkError},
		{"500 server error", 500, articleHTML, StatusNetworkError},
		{"unknown status with content", 0, articleHTML, StatusOK},
		{"unknown status with challenge body", 0, challengeHTML, StatusBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Classify(tt.status, tt.html))
		})
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "blocked", StatusBlocked.String())
	assert.Equal(t, "timed_out", StatusTimedOut.String())
	assert.Equal(t, "network_error", StatusNetworkError.String())
}

func TestIsAdDomain(t *testing.T) {
	t.Parallel()

	assert.True(t, isAdDomain("doubleclick.net"))
	assert.True(t, isAdDomain("pagead2.googlesyndication.com"))
	assert.True(t, isAdDomain("CDN.Taboola.com"))
	assert.False(t, isAdDomain("example.com"))
	assert.False(t, isAdDomain("news.sciencedaily.com"))
}
