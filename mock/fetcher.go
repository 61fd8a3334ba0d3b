package mock

import (
	"context"

	"github.com/fwojciec/secguide"
)

var _ secguide.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of secguide.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*secguide.FetchResponse, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*secguide.FetchResponse, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
