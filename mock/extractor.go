package mock

import "github.com/fwojciec/secguide"

var _ secguide.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of secguide.Extractor.
type Extractor struct {
	ExtractFn func(html string, sourceURL string) (*secguide.ExtractResult, error)
}

func (e *Extractor) Extract(html string, sourceURL string) (*secguide.ExtractResult, error) {
	return e.ExtractFn(html, sourceURL)
}

var _ secguide.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of secguide.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
