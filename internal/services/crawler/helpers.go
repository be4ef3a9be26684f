package crawler

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// hasNextPageLink reports whether the rendered page advertises a next page
// of posts.
func hasNextPageLink(pageHTML string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return false
	}

	if doc.Find(`a[rel="next"]`).Length() > 0 {
		return true
	}
	return doc.Find(`a[aria-label="Next page"], [data-tag="pagination-next"]`).Length() > 0
}

// extension returns the file extension of a URL path, including the dot.
func extension(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(parsed.Path)
}
