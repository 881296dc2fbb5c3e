package extract

import (
	"log/slog"
	"strings"
)

// builtinSite describes one entry in the closed site table. Adding a site
// is a compile-time addition here, which keeps the set of strategies
// enumerable and testable.
type builtinSite struct {
	host            string
	selectors       []string
	minParagraphLen int
}

// builtinSites is the static table of site-specific article markup.
var builtinSites = []builtinSite{
	{
		host:            "medicalxpress.com",
		selectors:       []string{"article"},
		minParagraphLen: 50,
	},
	{
		host:            "sciencedaily.com",
		selectors:       []string{"#story_text", "#text"},
		minParagraphLen: 30,
	},
}

// Registry maps hostnames to site-specific strategies with a generic
// fallback. It is built once at startup and read-only afterwards.
type Registry struct {
	sites   map[string]Strategy
	generic Strategy
}

// NewRegistry builds the registry from the built-in site table.
// enabledSites restricts the active site strategies by hostname; empty
// means all. minWords is the usable-text threshold shared by all
// strategies.
func NewRegistry(minWords int, enabledSites []string) *Registry {
	enabled := make(map[string]bool, len(enabledSites))
	for _, h := range enabledSites {
		enabled[normalizeHost(h)] = true
	}

	sites := make(map[string]Strategy, len(builtinSites))
	for _, site := range builtinSites {
		if len(enabled) > 0 && !enabled[site.host] {
			continue
		}
		strat, err := NewSelectorStrategy(siteName(site.host), site.selectors, site.minParagraphLen, minWords)
		if err != nil {
			// Built-in selectors are constants; this only fires on a
			// typo during development.
			slog.Error("extract: invalid built-in selector, site disabled",
				"host", site.host, "error", err,
			)
			continue
		}
		sites[site.host] = strat
	}

	return &Registry{
		sites:   sites,
		generic: NewGenericStrategy(minWords),
	}
}

// Select returns the strategy for a host, or the generic fallback when no
// site-specific strategy is registered. It is total: it never fails.
func (r *Registry) Select(host string) Strategy {
	if strat, ok := r.sites[normalizeHost(host)]; ok {
		return strat
	}
	return r.generic
}

// Generic returns the fallback strategy directly, used for the one-hop
// fallback after a site strategy reports ErrNotApplicable.
func (r *Registry) Generic() Strategy {
	return r.generic
}

// Sites returns the hostnames with an active site-specific strategy.
func (r *Registry) Sites() []string {
	hosts := make([]string, 0, len(r.sites))
	for h := range r.sites {
		hosts = append(hosts, h)
	}
	return hosts
}

// normalizeHost lowercases and strips a leading "www." so the lookup is
// an exact match on the registrable host.
func normalizeHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// siteName derives a short strategy name from a hostname
// ("sciencedaily.com" → "sciencedaily").
func siteName(host string) string {
	name, _, found := strings.Cut(host, ".")
	if !found {
		return host
	}
	return name
}
