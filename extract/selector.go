package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/autoanosis/scraperd/normalize"
)

// SelectorStrategy encodes structural knowledge of one site's article
// markup as an ordered list of CSS selectors. Selectors are tried in
// priority order until one yields enough text, which tolerates minor
// markup drift without a code change.
type SelectorStrategy struct {
	name            string
	selectors       []cascadia.Selector
	minParagraphLen int
	minWords        int
}

// NewSelectorStrategy compiles the selector list. Selectors are static
// per-site knowledge, so a compile failure is a programming error.
func NewSelectorStrategy(name string, selectors []string, minParagraphLen, minWords int) (*SelectorStrategy, error) {
	compiled := make([]cascadia.Selector, 0, len(selectors))
	for _, s := range selectors {
		sel, err := cascadia.Compile(s)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, sel)
	}
	return &SelectorStrategy{
		name:            name,
		selectors:       compiled,
		minParagraphLen: minParagraphLen,
		minWords:        minWords,
	}, nil
}

func (s *SelectorStrategy) Name() string { return s.name }

// Extract tries each selector in priority order. For the first selector
// that matches, paragraphs inside the matched container are collected in
// document order; short fragments (captions, timestamps, nav stubs) are
// skipped. Moves on to the next selector when the result is too thin.
func (s *SelectorStrategy) Extract(d *Document) (string, error) {
	for _, sel := range s.selectors {
		container := d.Doc.FindMatcher(sel).First()
		if container.Length() == 0 {
			continue
		}

		text := collectParagraphs(container, s.minParagraphLen)
		if normalize.WordCount(text) >= s.minWords {
			return text, nil
		}
	}
	return "", ErrNotApplicable
}

// collectParagraphs gathers paragraph-level text inside a container in
// document order, dropping fragments shorter than minLen characters.
// A container with no <p> children at all falls back to its own text,
// which covers pages whose article body is bare text in a single block.
func collectParagraphs(container *goquery.Selection, minLen int) string {
	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) >= minLen {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		if text := strings.TrimSpace(container.Text()); len(text) >= minLen {
			return text
		}
		return ""
	}

	return strings.Join(parts, "\n\n")
}
