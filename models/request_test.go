package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDefaults(t *testing.T) {
	t.Parallel()

	req := &ScrapeRequest{URL: "https://example.com"}
	req.Defaults()

	assert.Equal(t, 30000, req.Timeout)
	assert.Equal(t, 30*time.Second, req.TimeoutDuration())

	explicit := &ScrapeRequest{URL: "https://example.com", Timeout: 5000}
	explicit.Defaults()
	assert.Equal(t, 5000, explicit.Timeout)
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  ScrapeRequest
		ok   bool
	}{
		{"https URL", ScrapeRequest{URL: "https://example.com/a", Timeout: 1000}, true},
		{"http URL", ScrapeRequest{URL: "http://example.com", Timeout: 1000}, true},
		{"empty URL", ScrapeRequest{URL: "", Timeout: 1000}, false},
		{"relative path", ScrapeRequest{URL: "/a/b", Timeout: 1000}, false},
		{"ftp scheme", ScrapeRequest{URL: "ftp://example.com", Timeout: 1000}, false},
		{"scheme only", ScrapeRequest{URL: "https://", Timeout: 1000}, false},
		{"zero timeout", ScrapeRequest{URL: "https://example.com", Timeout: 0}, false},
		{"negative timeout", ScrapeRequest{URL: "https://example.com", Timeout: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.ok {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, ErrCodeInvalidInput, err.Code)
			}
		})
	}
}

func TestResponseErrCode(t *testing.T) {
	t.Parallel()

	ok := OK("some text", 2)
	assert.Empty(t, ok.ErrCode())

	failed := Fail(NewScrapeError(ErrCodeRateLimited, "blocked upstream", nil))
	assert.Equal(t, ErrCodeRateLimited, failed.ErrCode())
	require.NotNil(t, failed.Error)
	assert.Equal(t, "RATE_LIMITED: blocked upstream", *failed.Error)
}

func TestScrapeErrorWrapping(t *testing.T) {
	t.Parallel()

	cause := assert.AnError
	err := NewScrapeError(ErrCodeNetwork, "dial failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "NETWORK_ERROR")
	assert.Equal(t, "NETWORK_ERROR: dial failed", err.Detail())
}
