package extract

import (
	"log/slog"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/autoanosis/scraperd/normalize"
)

// Signal weights for the block scorer.
const (
	wTextDensity = 3.0
	wLinkDensity = -2.0
	wTagWeight   = 1.5
	wClassID     = 1.0
	wTextLength  = 0.5
)

// genericMinParagraphLen filters navigation stubs and captions when
// collecting text from the chosen region.
const genericMinParagraphLen = 30

// positiveClassIDPatterns are substrings in class/id attributes that
// indicate main content areas.
var positiveClassIDPatterns = []string{
	"content", "article", "post", "entry", "body", "main", "text", "story",
}

// negativeClassIDPatterns indicate boilerplate areas.
var negativeClassIDPatterns = []string{
	"sidebar", "ad", "widget", "nav", "menu", "comment", "footer",
	"header", "banner", "popup", "modal", "cookie", "social", "share",
	"related", "recommend", "promo",
}

// GenericStrategy is the always-applicable fallback. It first runs the
// Mozilla Readability algorithm; when that yields too little text it
// scores block-level containers by text density and extracts the single
// best-scoring region in document order. It never stitches together
// disjoint regions, so reading order is preserved.
type GenericStrategy struct {
	minWords int
}

// NewGenericStrategy creates the fallback strategy. minWords is the
// threshold below which output counts as not applicable.
func NewGenericStrategy(minWords int) *GenericStrategy {
	return &GenericStrategy{minWords: minWords}
}

func (g *GenericStrategy) Name() string { return "generic" }

// Extract runs readability, then density scoring, in that order.
func (g *GenericStrategy) Extract(d *Document) (string, error) {
	if text := g.extractReadability(d); normalize.WordCount(text) >= g.minWords {
		return text, nil
	}

	text := g.extractByDensity(d)
	if normalize.WordCount(text) >= g.minWords {
		return text, nil
	}

	return "", ErrNotApplicable
}

// extractReadability runs go-readability and returns its plain text, or ""
// when the algorithm fails or cannot locate the main content.
func (g *GenericStrategy) extractReadability(d *Document) string {
	article, err := readability.FromReader(strings.NewReader(d.HTML), d.URL)
	if err != nil {
		slog.Debug("generic: readability failed, falling back to density scoring",
			"url", d.URL.String(), "error", err,
		)
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// extractByDensity scores candidate containers and extracts paragraph
// text from the single highest-scoring one, in document order.
func (g *GenericStrategy) extractByDensity(d *Document) string {
	best := bestContainer(d.Doc)
	if best == nil {
		return ""
	}

	text := collectParagraphs(best, genericMinParagraphLen)
	if text != "" {
		return text
	}

	// Degenerate page: a region with nothing paragraph-shaped. Use the
	// container's own text rather than giving up.
	return strings.TrimSpace(best.Text())
}

// bestContainer returns the highest-scoring block container, or the body
// when no candidate exists (e.g. a page that is a single bare paragraph).
func bestContainer(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestScore := math.Inf(-1)

	doc.Find("article, main, [role=main], section, div").Each(func(_ int, el *goquery.Selection) {
		score := scoreBlock(el)
		if score > bestScore {
			bestScore = score
			best = el
		}
	})

	if best != nil && bestScore > 0 {
		return best
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return best
}

// scoreBlock computes a weighted score for a container from text density,
// link density, semantic tag, class/id signals, and text length.
func scoreBlock(el *goquery.Selection) float64 {
	outer, err := goquery.OuterHtml(el)
	if err != nil {
		return math.Inf(-1)
	}

	text := strings.TrimSpace(el.Text())
	textLen := len(text)
	if textLen == 0 {
		return math.Inf(-1)
	}
	totalLen := len(outer)

	textDensity := 0.0
	if totalLen > 0 {
		textDensity = float64(textLen) / float64(totalLen)
	}

	linkTextLen := 0
	el.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkTextLen += len(strings.TrimSpace(a.Text()))
	})
	linkDensity := float64(linkTextLen) / float64(textLen)

	return textDensity*wTextDensity +
		linkDensity*wLinkDensity +
		tagWeight(el)*wTagWeight +
		classIDWeight(el)*wClassID +
		math.Log10(float64(textLen)+1)*wTextLength
}

// tagWeight returns a bonus for semantic content tags and a penalty for
// known boilerplate tags.
func tagWeight(el *goquery.Selection) float64 {
	switch goquery.NodeName(el) {
	case "article", "main", "section":
		return 5.0
	case "nav", "footer", "aside", "header":
		return -5.0
	default:
		return 0.0
	}
}

// classIDWeight scans class and id attributes for content vs boilerplate
// signals, counting at most one hit per direction.
func classIDWeight(el *goquery.Selection) float64 {
	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	combined := strings.ToLower(class + " " + id)

	score := 0.0
	for _, pat := range positiveClassIDPatterns {
		if strings.Contains(combined, pat) {
			score += 3.0
			break
		}
	}
	for _, pat := range negativeClassIDPatterns {
		if strings.Contains(combined, pat) {
			score -= 3.0
			break
		}
	}
	return score
}
