package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeNetwork          = "NETWORK_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeTimeout          = "SCRAPE_TIMEOUT"
	ErrCodeExtractionFailed = "EXTRACTION_FAILED"
	ErrCodeBrowserCrash     = "BROWSER_CRASH"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// Detail renders the error for the API response: "CODE: message".
// The wrapped cause is omitted: it may carry internal detail (CDP
// messages, launcher paths) that callers have no use for.
func (e *ScrapeError) Detail() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
