package goquery_test

import (
	"testing"

	"github.com/fwojciec/linkminer/goquery"
	"github.com/stretchr/testify/assert"
)

func TestExtractor_ExtractHrefs(t *testing.T) {
	t.Parallel()

	t.Run("returns hrefs in document order", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<nav>
	<a href="/docs/intro">Introduction</a>
	<a href="https://example.com/docs/guide">Guide</a>
</nav>
<main>
	<p>See <a href="../api#users">the API</a>.</p>
	<a href="/docs/intro">Introduction again</a>
</main>
</body>
</html>`

		hrefs := goquery.NewExtractor().ExtractHrefs(html)

		assert.Equal(t, []string{
			"/docs/intro",
			"https://example.com/docs/guide",
			"../api#users",
			"/docs/intro",
		}, hrefs)
	})

	t.Run("skips anchors without usable href", func(t *testing.T) {
		t.Parallel()

		html := `<a>no href</a>
<a href="">empty</a>
<a href="   ">blank</a>
<a name="anchor">named</a>
<a href="/kept">kept</a>`

		hrefs := goquery.NewExtractor().ExtractHrefs(html)

		assert.Equal(t, []string{"/kept"}, hrefs)
	})

	t.Run("keeps raw href values", func(t *testing.T) {
		t.Parallel()

		html := `<a href=" /padded ">padded</a><a href="mailto:team@example.com">mail</a><a href="#top">top</a>`

		hrefs := goquery.NewExtractor().ExtractHrefs(html)

		assert.Equal(t, []string{" /padded ", "mailto:team@example.com", "#top"}, hrefs)
	})

	t.Run("ignores non-anchor elements with href", func(t *testing.T) {
		t.Parallel()

		html := `<head><link rel="stylesheet" href="/style.css"></head><body><area href="/map"><a href="/page">page</a></body>`

		hrefs := goquery.NewExtractor().ExtractHrefs(html)

		assert.Equal(t, []string{"/page"}, hrefs)
	})

	t.Run("returns nothing for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.NewExtractor().ExtractHrefs(""))
	})

	t.Run("tolerates garbage input", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			goquery.NewExtractor().ExtractHrefs("<<<\x00 not html <a href=")
		})
	})

	t.Run("recovers anchors from malformed markup", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li><a href="/one">one</a><li><p>unclosed <span><a href="/two">two</a></ul></div>`

		hrefs := goquery.NewExtractor().ExtractHrefs(html)

		assert.Equal(t, []string{"/one", "/two"}, hrefs)
	})

	t.Run("custom selector narrows extraction", func(t *testing.T) {
		t.Parallel()

		html := `<nav><a href="/nav">nav</a></nav><footer><a href="/footer">footer</a></footer>`

		hrefs := goquery.NewExtractor(goquery.WithSelector("nav a[href]")).ExtractHrefs(html)

		assert.Equal(t, []string{"/nav"}, hrefs)
	})
}
