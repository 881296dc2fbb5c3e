// Package normalize turns raw extracted page text into clean article text.
// All functions are pure and deterministic; Normalize is idempotent.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// maxBoilerplateLineLen bounds denylist matching to short lines. A genuine
// article paragraph that merely mentions cookies or subscriptions is longer
// than any consent banner or subscribe prompt.
const maxBoilerplateLineLen = 160

// boilerplatePatterns match lines that are site chrome rather than article
// text: consent banners, subscribe prompts, ads, share widgets.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcookies?\b`),
	regexp.MustCompile(`(?i)\bconsent\b`),
	regexp.MustCompile(`(?i)\bsubscri(be|ption)\b`),
	regexp.MustCompile(`(?i)\badvertisement\b`),
	regexp.MustCompile(`(?i)\bnewsletter\b`),
	regexp.MustCompile(`(?i)\bsign up\b`),
	regexp.MustCompile(`(?i)\bshare this (article|story)\b`),
	regexp.MustCompile(`(?i)\bfollow us\b`),
	regexp.MustCompile(`(?i)\ball rights reserved\b`),
}

var spaceRun = regexp.MustCompile(`[ \t\p{Zs}]+`)

// Normalize cleans raw text and returns it with its word count.
func Normalize(raw string) (string, int) {
	clean := Clean(raw)
	return clean, WordCount(clean)
}

// Clean strips residual markup, collapses whitespace runs, removes
// boilerplate lines, and collapses blank-line runs so paragraphs are
// separated by exactly one blank line.
func Clean(raw string) string {
	text := stripMarkup(raw)

	var out []string
	blank := true // suppress leading blank lines
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		if isBoilerplate(line) {
			continue
		}
		out = append(out, line)
		blank = false
	}

	// Drop a trailing blank line left by the paragraph separator logic.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

// WordCount returns the number of maximal whitespace-delimited tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// isBoilerplate reports whether a short line matches the phrase denylist.
func isBoilerplate(line string) bool {
	if len(line) > maxBoilerplateLineLen {
		return false
	}
	for _, p := range boilerplatePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// stripMarkup removes any markup fragments left over by extraction using
// the HTML tokenizer, keeping only text content. Script and style bodies
// are dropped entirely.
//
// Text tokens are emitted raw, without entity decoding: decoding would
// turn an escaped reference like "&lt;div&gt;" into literal markup that a
// repeated application would then strip, so raw emission is what keeps
// Clean stable under repeated application.
func stripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript":
				skipDepth++
			case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Raw())
			}
		}
	}
}
