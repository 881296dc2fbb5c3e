package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Retry     RetryConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8000
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance and per-page fingerprint.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	// When the pool is saturated, new requests queue rather than
	// spawning additional Chrome processes.
	MaxPages int // default: 10

	// UserAgent is applied to every page before navigation.
	UserAgent string

	// ViewportWidth and ViewportHeight set the emulated viewport.
	ViewportWidth  int // default: 1920
	ViewportHeight int // default: 1080

	// ExtraHeaders are sent with every navigation ("Key=Value" pairs).
	ExtraHeaders map[string]string

	// Proxy is an optional proxy URL passed to the launcher. IP rotation
	// can be layered in here without touching the retry policy.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// BlockedResourceTypes lists resource types never fetched during
	// navigation. default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds blocks requests to known ad/tracking domains.
	BlockAds bool // default: true
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// DefaultTimeout is the per-request timeout when the client omits one.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// MinContentWords is the minimum word count for a strategy's output
	// to be considered usable article text.
	MinContentWords int // default: 40

	// Sites restricts the enabled site-specific strategies by hostname.
	// Empty means all built-in strategies are enabled.
	Sites []string
}

// RetryConfig controls the rate-limit mitigation policy.
type RetryConfig struct {
	// MaxAttempts is the total number of navigation attempts per request.
	MaxAttempts int // default: 3

	// BaseDelay is the backoff base: delay = BaseDelay << attempt + jitter.
	BaseDelay time.Duration // default: 500ms

	// MaxDelay caps a single backoff sleep so retries stay inside the
	// request's overall timeout budget.
	MaxDelay time.Duration // default: 5s

	// Jitter is the upper bound of the random component added to each delay.
	Jitter time.Duration // default: 300ms
}

// RateLimitConfig controls per-client rate limiting on the API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SCRAPERD_HOST", "0.0.0.0"),
			Port: envIntOr("SCRAPERD_PORT", 8000),
			Mode: envOr("SCRAPERD_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless: envBoolOr("SCRAPERD_HEADLESS", true),
			MaxPages: envIntOr("SCRAPERD_MAX_PAGES", 10),
			UserAgent: envOr("SCRAPERD_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			ViewportWidth:  envIntOr("SCRAPERD_VIEWPORT_WIDTH", 1920),
			ViewportHeight: envIntOr("SCRAPERD_VIEWPORT_HEIGHT", 1080),
			ExtraHeaders:   envMapOr("SCRAPERD_EXTRA_HEADERS", nil),
			Proxy:          os.Getenv("SCRAPERD_PROXY"),
			NoSandbox:      envBoolOr("SCRAPERD_NO_SANDBOX", false),
			Bin:            os.Getenv("SCRAPERD_BROWSER_BIN"),
			BlockedResourceTypes: envSliceOr("SCRAPERD_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
			BlockAds: envBoolOr("SCRAPERD_BLOCK_ADS", true),
		},
		Scraper: ScraperConfig{
			DefaultTimeout:  envDurationOr("SCRAPERD_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:      envDurationOr("SCRAPERD_MAX_TIMEOUT", 120*time.Second),
			MinContentWords: envIntOr("SCRAPERD_MIN_CONTENT_WORDS", 40),
			Sites:           envSliceOr("SCRAPERD_SITES", nil),
		},
		Retry: RetryConfig{
			MaxAttempts: envIntOr("SCRAPERD_RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:   envDurationOr("SCRAPERD_RETRY_BASE_DELAY", 500*time.Millisecond),
			MaxDelay:    envDurationOr("SCRAPERD_RETRY_MAX_DELAY", 5*time.Second),
			Jitter:      envDurationOr("SCRAPERD_RETRY_JITTER", 300*time.Millisecond),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SCRAPERD_RATE_RPS", 5.0),
			Burst:             envIntOr("SCRAPERD_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("SCRAPERD_LOG_LEVEL", "info"),
			Format: envOr("SCRAPERD_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

func envMapOr(key string, fallback map[string]string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	result := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && k != "" {
			result[k] = val
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}
