package models

// ScrapeResponse is the response for POST /scrape.
//
// Invariants: Success is true iff Error is nil and Content is non-empty;
// WordCount is always the whitespace-token count of Content (0 when
// Content is nil).
type ScrapeResponse struct {
	// Success indicates whether the scrape completed without errors.
	Success bool `json:"success"`

	// Content is the normalized article text. Null when the scrape failed.
	Content *string `json:"content"`

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int `json:"word_count"`

	// Error is "CODE: message" when Success is false, null otherwise.
	Error *string `json:"error"`
}

// OK builds a successful response from normalized content and its word count.
func OK(content string, wordCount int) *ScrapeResponse {
	return &ScrapeResponse{
		Success:   true,
		Content:   &content,
		WordCount: wordCount,
	}
}

// Fail builds a failed response from a typed error.
func Fail(err *ScrapeError) *ScrapeResponse {
	detail := err.Detail()
	return &ScrapeResponse{Error: &detail}
}

// ErrCode extracts the error code prefix from a failed response, or ""
// for successful responses. Used by the API layer for status mapping.
func (r *ScrapeResponse) ErrCode() string {
	if r.Error == nil {
		return ""
	}
	s := *r.Error
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i]
		}
	}
	return s
}

// RootResponse is the response for GET /.
type RootResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int   `json:"max_pages"`
	ActivePages int   `json:"active_pages"`
	Acquired    int64 `json:"acquired_total"`
}
