package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/autoanosis/scraperd/config"
	"github.com/autoanosis/scraperd/models"
)

// Manager owns the global browser lifecycle and the bounded page pool.
// It is safe for concurrent use. When the pool is saturated, Open queues
// until a page is free rather than spawning more Chrome processes.
type Manager struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	cfg         config.BrowserConfig
	activePages atomic.Int32
	acquired    atomic.Int64
}

// NewManager launches a headless browser and initialises the reusable page pool.
func NewManager(cfg config.BrowserConfig) (*Manager, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	pool := rod.NewPagePool(cfg.MaxPages)
	slog.Info("page pool created", "maxPages", cfg.MaxPages)

	return &Manager{
		browser:  browser,
		pagePool: pool,
		cfg:      cfg,
	}, nil
}

// Stats returns a snapshot of the pool's current state.
func (m *Manager) Stats() models.PoolStats {
	return models.PoolStats{
		MaxPages:    m.cfg.MaxPages,
		ActivePages: int(m.activePages.Load()),
		Acquired:    m.acquired.Load(),
	}
}

// Close drains the page pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (m *Manager) Close() {
	slog.Info("browser shutting down: draining page pool")
	m.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	slog.Info("browser shutting down: closing browser")
	m.browser.MustClose()
	slog.Info("browser shutdown complete")
}

// Open navigates to url with timeout as a hard ceiling and returns a
// classified PageLoadOutcome. It never returns an unhandled fault and
// never lets a page outlive the call.
//
// Lifecycle:
//
//  1. Deadline guard          – hard ceiling on the entire attempt
//  2. Acquire page            – borrow a tab from the pool (queues when full)
//  3. DEFER: cleanup          – about:blank + return to pool (leak prevention)
//  4. Stealth + fingerprint   – mask navigator.webdriver, UA, viewport (before navigation!)
//  5. Hijack mount            – block images/CSS/fonts/media + ad domains (before navigation!)
//  6. Context binding         – propagate the deadline to all Rod operations
//  7. Navigate + wait         – page load, then DOM stability
//  8. Status + classify       – recover HTTP status, map to outcome
//
// Steps 4-5 must precede navigation: stealth JS and resource blocking only
// apply to navigations installed before them. Step 3 uses the original
// page reference (without the request context) so cleanup succeeds even
// after the deadline has expired.
func (m *Manager) Open(ctx context.Context, rawURL string, timeout time.Duration) *Outcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ── 2. Acquire page from pool ─────────────────────────────────────
	page, acquireErr := m.acquirePage(ctx)
	if acquireErr != nil {
		if isDeadline(acquireErr) {
			return &Outcome{Status: StatusTimedOut, Err: acquireErr}
		}
		return &Outcome{
			Status: StatusNetworkError,
			Err: models.NewScrapeError(
				models.ErrCodeBrowserCrash,
				"failed to acquire page from pool",
				acquireErr,
			),
		}
	}
	m.acquired.Add(1)
	m.activePages.Add(1)
	defer m.activePages.Add(-1)

	// ── 3. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		m.pagePool.Put(page)
	}()

	// ── 4. Stealth + fingerprint ──────────────────────────────────────
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth",
			"error", evalErr,
		)
	}
	if m.cfg.UserAgent != "" {
		_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: m.cfg.UserAgent,
		})
	}
	if m.cfg.ViewportWidth > 0 && m.cfg.ViewportHeight > 0 {
		_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             m.cfg.ViewportWidth,
			Height:            m.cfg.ViewportHeight,
			DeviceScaleFactor: 1,
		})
	}

	// ── 4b. Extra headers (config + Google Referer) ──────────────────
	extraHeaders := make(map[string]string, len(m.cfg.ExtraHeaders)+1)
	if _, hasReferer := m.cfg.ExtraHeaders["Referer"]; !hasReferer {
		if u, parseErr := url.Parse(rawURL); parseErr == nil {
			extraHeaders["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		}
	}
	for k, v := range m.cfg.ExtraHeaders {
		extraHeaders[k] = v
	}
	if len(extraHeaders) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(extraHeaders),
		}.Call(page)
	}

	// ── 5. Mount hijack router ────────────────────────────────────────
	router := setupHijack(page, m.cfg.BlockedResourceTypes, m.cfg.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 7. Navigate ───────────────────────────────────────────────────
	if navErr := p.Navigate(rawURL); navErr != nil {
		return navigationOutcome(navErr)
	}

	// NOTE: WaitRequestIdle uses the Fetch domain which conflicts with
	// HijackRequests on Chromium 145+, so DOM stability is the wait signal.
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		if isDeadline(stableErr) || ctx.Err() != nil {
			return &Outcome{Status: StatusTimedOut, Err: stableErr}
		}
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	// ── 8. Status code + extraction ──────────────────────────────────
	// The Navigation Timing API yields the HTTP status without CDP event
	// listeners, which would conflict with the hijack router.
	statusCode := 0
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return navigationOutcome(htmlErr)
	}

	finalURL := rawURL
	if res, err := p.Eval(`() => window.location.href`); err == nil && res.Value.Str() != "" {
		finalURL = res.Value.Str()
	}

	status := Classify(statusCode, rawHTML)
	out := &Outcome{
		Status:     status,
		HTTPStatus: statusCode,
		FinalURL:   finalURL,
	}
	if status == StatusOK {
		out.HTML = rawHTML
	}
	return out
}

// acquirePage borrows a page slot from the pool, giving up when the
// request context ends first. A saturated pool therefore queues a request
// only for as long as its own deadline allows. An empty slot means no
// page has been created for it yet; on creation failure the slot is
// returned so the pool keeps its capacity.
func (m *Manager) acquirePage(ctx context.Context) (*rod.Page, error) {
	select {
	case page := <-m.pagePool:
		if page != nil {
			return page, nil
		}
		created, err := m.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			m.pagePool.Put(nil)
			return nil, err
		}
		return created, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// navigationOutcome maps navigation faults to outcomes: context deadline
// → TimedOut, everything else (DNS, connection reset, TLS) → NetworkError.
func navigationOutcome(err error) *Outcome {
	if isDeadline(err) {
		return &Outcome{Status: StatusTimedOut, Err: err}
	}
	return &Outcome{Status: StatusNetworkError, Err: err}
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
