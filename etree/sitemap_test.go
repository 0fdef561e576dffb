package etree_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/fwojciec/linkminer"
	lmetree "github.com/fwojciec/linkminer/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSitemap(t *testing.T) {
	t.Parallel()

	t.Run("writes one url entry per link", func(t *testing.T) {
		t.Parallel()

		result := &linkminer.Result{
			Links: []string{
				"https://example.com/a",
				"https://example.com/b?x=1&y=2",
			},
		}

		out, err := lmetree.FormatSitemap(result)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
		assert.Contains(t, out, "&amp;y=2")

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromString(out))
		root := doc.Root()
		require.NotNil(t, root)
		assert.Equal(t, "urlset", root.Tag)
		assert.Equal(t, lmetree.SitemapNamespace, root.SelectAttrValue("xmlns", ""))

		var locs []string
		for _, u := range root.SelectElements("url") {
			locs = append(locs, u.SelectElement("loc").Text())
		}
		assert.Equal(t, result.Links, locs)
	})

	t.Run("writes empty urlset when nothing was found", func(t *testing.T) {
		t.Parallel()

		out, err := lmetree.FormatSitemap(&linkminer.Result{})
		require.NoError(t, err)

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromString(out))
		require.NotNil(t, doc.Root())
		assert.Equal(t, "urlset", doc.Root().Tag)
		assert.Empty(t, doc.Root().SelectElements("url"))
	})
}
