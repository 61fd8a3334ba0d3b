package mock

import (
	"context"

	"github.com/fwojciec/secguide"
)

var _ secguide.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of secguide.Embedder.
type Embedder struct {
	EncodeOneFn  func(ctx context.Context, text string) ([]float32, error)
	EncodeManyFn func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionsFn func() int
}

func (e *Embedder) EncodeOne(ctx context.Context, text string) ([]float32, error) {
	return e.EncodeOneFn(ctx, text)
}

func (e *Embedder) EncodeMany(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EncodeManyFn(ctx, texts)
}

func (e *Embedder) Dimensions() int {
	return e.DimensionsFn()
}
