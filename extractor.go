package secguide

// ExtractResult holds the prose extracted from an HTML page.
type ExtractResult struct {
	// Title is the text of the first top-level heading,
	// or the source URL when the page has none.
	Title string

	// Content is the whitespace-joined text of the page's
	// paragraphs, list items, sub-headings and inline code.
	Content string
}

// Extractor extracts prose from HTML pages.
type Extractor interface {
	// Extract returns the title and content of the page.
	// Returns ENOCONTENT when the page has no content region
	// or the region holds no text-bearing elements.
	Extract(html string, sourceURL string) (*ExtractResult, error)
}

// LinkExtractor discovers outbound links in HTML pages.
type LinkExtractor interface {
	// ExtractLinks returns the absolute URLs of the page's links that pass
	// ShouldFollow, resolved against baseURL, in document order.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
