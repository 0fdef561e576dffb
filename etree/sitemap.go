// Package etree renders crawl results as XML sitemaps.
package etree

import (
	"github.com/beevik/etree"
	"github.com/fwojciec/linkminer"
)

// SitemapNamespace is the sitemaps.org schema namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// FormatSitemap renders the discovered links of r as a sitemaps.org urlset.
// Links are written in the order they appear in r.
func FormatSitemap(r *linkminer.Result) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", SitemapNamespace)
	for _, link := range r.Links {
		urlset.CreateElement("url").CreateElement("loc").SetText(link)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", linkminer.Errorf(linkminer.EINTERNAL, "writing sitemap: %v", err)
	}
	return out, nil
}
