package models

import (
	"net/url"
	"time"
)

// ScrapeRequest is the payload for POST /scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required, absolute, http(s) only.
	URL string `json:"url" binding:"required"`

	// Timeout is the maximum duration in milliseconds for the entire
	// scrape operation (navigation + retries + extraction).
	// Default: 30000. Capped at the configured maximum.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1"`
}

// DefaultTimeout is the built-in fallback when the client omits the
// timeout field and no configured default applies.
const DefaultTimeout = 30 * time.Second

// Defaults applies default values to unset fields. Callers carrying a
// configured default timeout apply it before this runs.
func (r *ScrapeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = int(DefaultTimeout / time.Millisecond)
	}
}

// TimeoutDuration returns the request timeout as a time.Duration.
func (r *ScrapeRequest) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Millisecond
}

// Validate checks the request invariants: the URL must parse, be absolute,
// and use an http(s) scheme; the timeout must be positive.
func (r *ScrapeRequest) Validate() *ScrapeError {
	u, err := url.Parse(r.URL)
	if err != nil {
		return NewScrapeError(ErrCodeInvalidInput, "malformed URL", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return NewScrapeError(ErrCodeInvalidInput, "URL must be absolute http or https", nil)
	}
	if u.Host == "" {
		return NewScrapeError(ErrCodeInvalidInput, "URL has no host", nil)
	}
	if r.Timeout <= 0 {
		return NewScrapeError(ErrCodeInvalidInput, "timeout must be positive", nil)
	}
	return nil
}
