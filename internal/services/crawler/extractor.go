package crawler

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/patrondl/internal/models"
)

// assetHostFragments mark URLs that point at downloadable platform assets
// rather than navigation links.
var assetHostFragments = []string{
	"patreonusercontent.com",
	"/file?",
	"/media-u/",
}

// assetExtractor pulls downloadable asset references out of a rendered
// posts page.
type assetExtractor struct{}

// Extract parses the page HTML and returns asset references in document
// order: post images, attachment links, then embedded media sources.
// Duplicates within the page are dropped.
func (e *assetExtractor) Extract(pageHTML string) ([]*models.CrawledUrl, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var assets []*models.CrawledUrl

	add := func(rawURL, nameHint string) {
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" || seen[rawURL] {
			return
		}
		seen[rawURL] = true
		assets = append(assets, &models.CrawledUrl{
			Url:      rawURL,
			Filename: nameHint,
		})
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if isAssetURL(src) {
			add(src, filenameFromURL(src))
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !isAssetURL(href) {
			return
		}
		// Attachment anchors carry the original filename as a download
		// attribute or as the link text
		name, ok := s.Attr("download")
		if !ok || name == "" {
			name = strings.TrimSpace(s.Text())
		}
		if name == "" || strings.Contains(name, "/") {
			name = filenameFromURL(href)
		}
		add(href, name)
	})

	doc.Find("audio[src], video[src], source[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if isAssetURL(src) {
			add(src, filenameFromURL(src))
		}
	})

	return assets, nil
}

// isAssetURL reports whether the URL points at a downloadable platform asset
func isAssetURL(rawURL string) bool {
	if rawURL == "" || strings.HasPrefix(rawURL, "data:") {
		return false
	}
	for _, fragment := range assetHostFragments {
		if strings.Contains(rawURL, fragment) {
			return true
		}
	}
	return false
}

// filenameFromURL derives a filename hint from the URL path. Empty when the
// path carries no usable name.
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
