package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/autoanosis/scraperd/browser"
	"github.com/autoanosis/scraperd/config"
	"github.com/autoanosis/scraperd/extract"
	"github.com/autoanosis/scraperd/models"
	"github.com/autoanosis/scraperd/normalize"
)

// Session is the browser surface the orchestrator depends on. Satisfied
// by *browser.Manager; narrowed to an interface so tests can script
// navigation outcomes without a real Chrome.
type Session interface {
	Open(ctx context.Context, rawURL string, timeout time.Duration) *browser.Outcome
}

// Engine drives one scrape request from validation through navigation,
// retries, extraction, and normalization. It is stateless across requests
// and safe for concurrent use.
type Engine struct {
	session  Session
	registry *extract.Registry
	policy   *Policy
	cfg      config.ScraperConfig
}

// New wires an Engine from its collaborators.
func New(session Session, registry *extract.Registry, policy *Policy, cfg config.ScraperConfig) *Engine {
	return &Engine{
		session:  session,
		registry: registry,
		policy:   policy,
		cfg:      cfg,
	}
}

// Scrape runs the full pipeline for one request and always returns
// exactly one response. All failures are folded into the response; it
// never returns an error and never panics past gin's recovery.
//
// Validation runs before anything else: a malformed request is rejected
// without touching the browser pool.
func (e *Engine) Scrape(ctx context.Context, req *models.ScrapeRequest) *models.ScrapeResponse {
	if req.Timeout == 0 && e.cfg.DefaultTimeout > 0 {
		req.Timeout = int(e.cfg.DefaultTimeout / time.Millisecond)
	}
	req.Defaults()
	if verr := req.Validate(); verr != nil {
		return models.Fail(verr)
	}

	timeout := req.TimeoutDuration()
	if e.cfg.MaxTimeout > 0 && timeout > e.cfg.MaxTimeout {
		timeout = e.cfg.MaxTimeout
	}
	deadline := time.Now().Add(timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	out := e.navigate(ctx, req.URL, deadline)
	if out.Status != browser.StatusOK {
		return models.Fail(outcomeError(out))
	}
	return e.extract(req.URL, out)
}

// navigate runs the attempt loop under the mitigation policy until it
// proceeds or gives up. The returned outcome is StatusOK exactly when
// the policy decided to proceed.
func (e *Engine) navigate(ctx context.Context, rawURL string, deadline time.Time) *browser.Outcome {
	state := &RetryState{Started: time.Now()}

	for {
		out := e.session.Open(ctx, rawURL, time.Until(deadline))
		state.Attempt++

		d := e.policy.Decide(out, state)
		switch d.Action {
		case ActionProceed:
			slog.Debug("navigation succeeded",
				"url", rawURL, "attempt", state.Attempt, "httpStatus", out.HTTPStatus,
			)
			return out

		case ActionGiveUp:
			slog.Info("navigation gave up",
				"url", rawURL, "attempt", state.Attempt, "status", out.Status.String(),
			)
			return out

		case ActionRetry:
			// Sleeping past the deadline cannot help: the next attempt
			// would start with no budget left. Fail with the last outcome.
			if time.Until(deadline) <= d.Delay {
				slog.Info("retry delay exceeds remaining budget, giving up",
					"url", rawURL, "attempt", state.Attempt, "delay", d.Delay,
				)
				return out
			}
			slog.Info("retrying navigation",
				"url", rawURL, "attempt", state.Attempt, "delay", d.Delay,
				"status", out.Status.String(),
			)
			select {
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return &browser.Outcome{Status: browser.StatusTimedOut, Err: ctx.Err()}
				}
				// Client cancellation: report the failure that prompted
				// the retry rather than inventing a timeout.
				return out
			case <-time.After(d.Delay):
			}
		}
	}
}

// extract selects a strategy for the page's host, runs it with a single
// fallback hop to the generic strategy, and normalizes the result.
func (e *Engine) extract(requestURL string, out *browser.Outcome) *models.ScrapeResponse {
	doc, err := extract.NewDocument(out.HTML, pageURL(out, requestURL))
	if err != nil {
		return models.Fail(models.NewScrapeError(
			models.ErrCodeExtractionFailed,
			"failed to parse page HTML",
			err,
		))
	}

	strat := e.registry.Select(doc.URL.Hostname())
	text, err := strat.Extract(doc)
	if errors.Is(err, extract.ErrNotApplicable) && strat != e.registry.Generic() {
		slog.Debug("site strategy not applicable, falling back to generic",
			"strategy", strat.Name(), "url", requestURL,
		)
		strat = e.registry.Generic()
		text, err = strat.Extract(doc)
	}
	if err != nil {
		return models.Fail(models.NewScrapeError(
			models.ErrCodeExtractionFailed,
			"no usable article content found",
			err,
		))
	}

	content, words := normalize.Normalize(text)
	if words == 0 {
		return models.Fail(models.NewScrapeError(
			models.ErrCodeExtractionFailed,
			"extracted content is empty after normalization",
			nil,
		))
	}

	slog.Info("scrape completed",
		"url", requestURL, "strategy", strat.Name(), "words", words,
	)
	return models.OK(content, words)
}

// pageURL prefers the post-redirect URL so strategy selection matches
// the site that actually served the page.
func pageURL(out *browser.Outcome, requestURL string) string {
	if out.FinalURL != "" {
		if _, err := url.Parse(out.FinalURL); err == nil {
			return out.FinalURL
		}
	}
	return requestURL
}

// outcomeError maps a terminal navigation outcome to the typed error
// surfaced in the response.
func outcomeError(out *browser.Outcome) *models.ScrapeError {
	var serr *models.ScrapeError
	if errors.As(out.Err, &serr) {
		return serr
	}

	switch out.Status {
	case browser.StatusTimedOut:
		return models.NewScrapeError(
			models.ErrCodeTimeout,
			"page did not load within the request timeout",
			out.Err,
		)
	case browser.StatusBlocked:
		msg := "target site is rate limiting or blocking requests"
		if out.HTTPStatus > 0 {
			msg = fmt.Sprintf("target site is rate limiting or blocking requests (HTTP %d)", out.HTTPStatus)
		}
		return models.NewScrapeError(models.ErrCodeRateLimited, msg, out.Err)
	default:
		msg := "failed to load the target page"
		if out.HTTPStatus > 0 {
			msg = fmt.Sprintf("target page returned HTTP %d", out.HTTPStatus)
		}
		return models.NewScrapeError(models.ErrCodeNetwork, msg, out.Err)
	}
}
