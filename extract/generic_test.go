package extract_test

import (
	"strings"
	"testing"

	"github.com/autoanosis/scraperd/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericStrategy_PicksContentOverChrome(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<nav>
			<a href="/">Home</a> <a href="/about">About</a> <a href="/contact">Contact</a>
			<a href="/archive">Archive</a> <a href="/topics">Topics</a>
		</nav>
		<div class="article-content">
			<p>` + sentence(40) + `</p>
			<p>` + sentence(45) + `</p>
			<p>` + sentence(50) + `</p>
		</div>
		<footer><a href="/terms">Terms</a> <a href="/privacy">Privacy</a></footer>
	</body></html>`

	doc, err := extract.NewDocument(html, "https://example.com/story")
	require.NoError(t, err)

	text, err := extract.NewGenericStrategy(20).Extract(doc)
	require.NoError(t, err)

	assert.Contains(t, text, sentence(40))
	assert.Contains(t, text, sentence(50))
	assert.NotContains(t, text, "Archive")
	assert.NotContains(t, text, "Privacy")
}

func TestGenericStrategy_PreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	first := "Alpha opening paragraph " + sentence(30)
	second := "Beta middle paragraph " + sentence(35)
	third := "Gamma closing paragraph " + sentence(32)

	html := `<html><body><div class="post-content">
		<p>` + first + `</p>
		<p>` + second + `</p>
		<p>` + third + `</p>
	</div></body></html>`

	doc, err := extract.NewDocument(html, "https://example.com/story")
	require.NoError(t, err)

	text, err := extract.NewGenericStrategy(20).Extract(doc)
	require.NoError(t, err)

	iFirst := strings.Index(text, "Alpha opening")
	iSecond := strings.Index(text, "Beta middle")
	iThird := strings.Index(text, "Gamma closing")
	require.NotEqual(t, -1, iFirst)
	require.NotEqual(t, -1, iSecond)
	require.NotEqual(t, -1, iThird)
	assert.Less(t, iFirst, iSecond)
	assert.Less(t, iSecond, iThird)
}

func TestGenericStrategy_DegenerateSingleParagraph(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>` + sentence(30) + `</p></body></html>`

	doc, err := extract.NewDocument(html, "https://example.com/story")
	require.NoError(t, err)

	text, err := extract.NewGenericStrategy(10).Extract(doc)
	require.NoError(t, err)

	assert.Contains(t, text, sentence(30))
}

func TestGenericStrategy_NotApplicableOnEmptyPage(t *testing.T) {
	t.Parallel()

	html := `<html><body><div><p>tiny</p></div></body></html>`

	doc, err := extract.NewDocument(html, "https://example.com/empty")
	require.NoError(t, err)

	_, err = extract.NewGenericStrategy(50).Extract(doc)
	assert.ErrorIs(t, err, extract.ErrNotApplicable)
}
