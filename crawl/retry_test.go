package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/secguide"
	"github.com/fwojciec/secguide/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{0, 0, 0}

	t.Run("returns response on first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (*secguide.FetchResponse, error) {
			calls++
			return &secguide.FetchResponse{URL: url, StatusCode: 200}, nil
		}

		resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (*secguide.FetchResponse, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection reset")
			}
			return &secguide.FetchResponse{URL: url, StatusCode: 200}, nil
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after all attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (*secguide.FetchResponse, error) {
			calls++
			return nil, errors.New("timeout")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)

		require.Error(t, err)
		assert.Equal(t, "timeout", err.Error())
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{secguide.ENOTFOUND, secguide.EFORBIDDEN, secguide.EINVALID} {
			calls := 0
			fetch := func(_ context.Context, _ string) (*secguide.FetchResponse, error) {
				calls++
				return nil, secguide.Errorf(code, "permanent")
			}

			_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)

			require.Error(t, err)
			assert.Equal(t, code, secguide.ErrorCode(err))
			assert.Equal(t, 1, calls, code)
		}
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetch := func(_ context.Context, _ string) (*secguide.FetchResponse, error) {
			calls++
			cancel()
			return nil, errors.New("boom")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
