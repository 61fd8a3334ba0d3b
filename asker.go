package secguide

import "context"

// Asker answers natural language questions from retrieved documentation.
type Asker interface {
	// Ask answers a question using context retrieved from the knowledge base.
	// Returns ENOTFOUND if no context is available.
	Ask(ctx context.Context, question string) (string, error)
}
