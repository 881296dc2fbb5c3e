// Package engine contains the per-request orchestration state machine and
// the rate-limit mitigation policy that drives its retry loop.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/autoanosis/scraperd/browser"
	"github.com/autoanosis/scraperd/config"
)

// Action is the mitigation policy's verdict for one navigation outcome.
type Action int

const (
	// ActionProceed moves the request on to extraction.
	ActionProceed Action = iota

	// ActionRetry schedules another navigation attempt after Delay.
	ActionRetry

	// ActionGiveUp terminates the request with a failure.
	ActionGiveUp
)

// Decision pairs an action with its backoff delay (set only for ActionRetry).
type Decision struct {
	Action Action
	Delay  time.Duration
}

// RetryState tracks one request's attempts. It is owned exclusively by
// the orchestrator and discarded when the request completes.
type RetryState struct {
	// Attempt is the number of navigation attempts made so far (1-based
	// once the first attempt has completed).
	Attempt int

	// Started marks the beginning of orchestration.
	Started time.Time
}

// Policy decides whether a navigation outcome warrants a retry and how
// long to back off. It is stateless and shared across requests.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	jitter      time.Duration
}

// NewPolicy builds a Policy from config, applying defaults for unset fields.
func NewPolicy(cfg config.RetryConfig) *Policy {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	return &Policy{
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    cfg.MaxDelay,
		jitter:      cfg.Jitter,
	}
}

// MaxAttempts returns the configured attempt ceiling.
func (p *Policy) MaxAttempts() int { return p.maxAttempts }

// Decide maps a navigation outcome to the next action.
//
// Blocked and network failures are usually transient and host-level, so
// they retry with randomized exponential backoff until the attempt budget
// is spent. A timeout is not retried: the page was unreachable within the
// request's budget, and compounding timeouts across retries would only
// add latency.
func (p *Policy) Decide(out *browser.Outcome, state *RetryState) Decision {
	switch out.Status {
	case browser.StatusOK:
		return Decision{Action: ActionProceed}
	case browser.StatusTimedOut:
		return Decision{Action: ActionGiveUp}
	default: // Blocked, NetworkError
		if state.Attempt >= p.maxAttempts {
			return Decision{Action: ActionGiveUp}
		}
		return Decision{Action: ActionRetry, Delay: p.backoff(state.Attempt)}
	}
}

// backoff computes base * 2^(attempt-1) + random jitter, capped at the
// maximum so total retry time stays inside the request's timeout budget.
func (p *Policy) backoff(attempt int) time.Duration {
	shift := attempt - 1
	if shift < 0 {
		shift = 0
	}
	if shift > 16 {
		shift = 16
	}

	delay := p.baseDelay << shift
	if p.jitter > 0 {
		delay += rand.N(p.jitter)
	}
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}
