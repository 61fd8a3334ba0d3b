// Package goquery implements content extraction and link discovery over
// parsed HTML using github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/secguide"
)

// Default selectors.
var (
	// DefaultRegions are probed in order; the first present element is the
	// content region.
	DefaultRegions = []string{"main", "article", "body"}

	// DefaultContentSelector selects the text-bearing elements of a region.
	DefaultContentSelector = "p, li, h2, h3, h4, code"
)

var _ secguide.Extractor = (*Extractor)(nil)

// Extractor extracts the title and prose of a page.
type Extractor struct {
	Regions         []string
	ContentSelector string
}

// NewExtractor returns an Extractor using the default selectors.
func NewExtractor() *Extractor {
	return &Extractor{
		Regions:         DefaultRegions,
		ContentSelector: DefaultContentSelector,
	}
}

// Extract returns the page title and the text of every content element in
// the content region, in document order. Each element's text has its
// whitespace collapsed; empty elements are skipped.
func (e *Extractor) Extract(html string, sourceURL string) (*secguide.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, secguide.Errorf(secguide.EINVALID, "failed to parse HTML: %v", err)
	}

	region := firstMatch(doc.Selection, e.Regions...)
	if region == nil {
		return nil, secguide.Errorf(secguide.ENOCONTENT, "no content region in %s", sourceURL)
	}

	var parts []string
	region.Find(e.ContentSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := collapse(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return nil, secguide.Errorf(secguide.ENOCONTENT, "no content in %s", sourceURL)
	}

	title := collapse(doc.Find("h1").First().Text())
	if title == "" {
		title = sourceURL
	}

	return &secguide.ExtractResult{
		Title:   title,
		Content: strings.Join(parts, " "),
	}, nil
}

// firstMatch returns the first element matching the earliest selector that
// matches anything. Later selectors are not evaluated once one matches.
func firstMatch(root *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		if sel := root.Find(s).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
