package secguide

import "context"

// Retrieval defaults.
const (
	DefaultKFinal      = 3
	DefaultKCandidates = 6
)

// Passage is a retrieved piece of context handed to a consumer.
type Passage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RetrieveOptions configures a retrieval.
type RetrieveOptions struct {
	// KFinal is the maximum number of passages returned.
	KFinal int

	// KCandidates is the number of rows requested from the store.
	// It exceeds KFinal to leave room for de-duplication.
	KCandidates int
}

// WithDefaults returns a copy of the options with zero values replaced by
// defaults. KCandidates is raised to KFinal when smaller.
func (o RetrieveOptions) WithDefaults() RetrieveOptions {
	if o.KFinal <= 0 {
		o.KFinal = DefaultKFinal
	}
	if o.KCandidates <= 0 {
		o.KCandidates = DefaultKCandidates
	}
	if o.KCandidates < o.KFinal {
		o.KCandidates = o.KFinal
	}
	return o
}

// Retriever finds passages relevant to a query.
type Retriever interface {
	// Retrieve returns at most KFinal passages with distinct content,
	// nearest first. An empty result is not an error.
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]*Passage, error)
}
