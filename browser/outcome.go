// Package browser owns the headless Chrome lifecycle and produces one
// PageLoadOutcome per navigation attempt. It is the only package that
// touches the network.
package browser

import "strings"

// Status classifies the result of one navigation attempt.
type Status int

const (
	// StatusOK means a 2xx response with a rendered DOM.
	StatusOK Status = iota

	// StatusBlocked means the server throttled or bot-challenged us
	// (HTTP 429, or 503 with challenge markers). Retryable with backoff.
	StatusBlocked

	// StatusTimedOut means the page did not reach a loaded state within
	// the request deadline. Not retried: the budget is already spent.
	StatusTimedOut

	// StatusNetworkError covers DNS, connection, and TLS failures as
	// well as other non-2xx statuses.
	StatusNetworkError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBlocked:
		return "blocked"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "network_error"
	}
}

// Outcome is the transient per-attempt result consumed by the orchestrator.
// HTML and FinalURL are populated only for StatusOK.
type Outcome struct {
	Status     Status
	HTTPStatus int
	HTML       string
	FinalURL   string
	Err        error
}

// challengeMarkers are phrases that identify anti-bot interstitials
// (Cloudflare and similar) in an otherwise rendered page.
var challengeMarkers = []string{
	"checking your browser",
	"just a moment",
	"attention required",
	"cloudflare ray id",
	"verify you are human",
	"verifying you are human",
	"why have i been blocked",
	"enable javascript and cookies to continue",
}

// Classify maps a final HTTP status plus the rendered HTML to an outcome
// status. A zero status means the Navigation Timing lookup failed; the DOM
// still rendered, so it is treated as success unless the page body itself
// is a challenge interstitial.
func Classify(httpStatus int, html string) Status {
	switch {
	case httpStatus == 429:
		return StatusBlocked
	case httpStatus == 503 && looksLikeChallenge(html):
		return StatusBlocked
	case httpStatus == 0:
		if looksLikeChallenge(html) {
			return StatusBlocked
		}
		return StatusOK
	case httpStatus >= 200 && httpStatus < 300:
		return StatusOK
	default:
		return StatusNetworkError
	}
}

// looksLikeChallenge reports whether the page body is a bot-challenge
// interstitial rather than content.
func looksLikeChallenge(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
