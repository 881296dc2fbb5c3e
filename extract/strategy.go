// Package extract selects and runs content-extraction strategies against
// rendered pages. Strategies are stateless and registered at process start.
package extract

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotApplicable is returned by a strategy when it cannot produce text
// above the minimum threshold for the given page. The orchestrator falls
// back from a site-specific strategy to the generic one exactly once.
var ErrNotApplicable = errors.New("extract: strategy not applicable")

// Strategy extracts candidate article text from a rendered document.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "sciencedaily", "generic").
	Name() string

	// Extract returns the candidate text or ErrNotApplicable.
	Extract(d *Document) (string, error)
}

// Document is a rendered page handed to strategies: the final URL, the raw
// HTML, and the parsed DOM. Parsing happens once per request.
type Document struct {
	URL  *url.URL
	HTML string
	Doc  *goquery.Document
}

// NewDocument parses rendered HTML into a Document. finalURL is the page
// URL after redirects; it is used for metadata resolution, not fetching.
func NewDocument(rawHTML, finalURL string) (*Document, error) {
	u, err := url.Parse(finalURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	return &Document{URL: u, HTML: rawHTML, Doc: doc}, nil
}
