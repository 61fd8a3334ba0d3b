package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/secguide"
	secguidehttp "github.com/fwojciec/secguide/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body, status and content type", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := secguidehttp.NewFetcher()
		defer fetcher.Close()

		resp, err := fetcher.Fetch(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
		assert.Equal(t, server.URL+"/page", resp.URL)
		assert.Equal(t, "<html><body>Hello World</body></html>", resp.Body)
	})

	t.Run("decodes declared charset to UTF-8", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<p>caf\xe9</p>"))
		}))
		defer server.Close()

		fetcher := secguidehttp.NewFetcher()

		resp, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>café</p>", resp.Body)
	})

	t.Run("does not read non-HTML bodies", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		fetcher := secguidehttp.NewFetcher()

		resp, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.False(t, resp.IsHTML())
		assert.Equal(t, "application/pdf", resp.ContentType)
		assert.Empty(t, resp.Body)
	})

	t.Run("reports final URL after redirect", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("new"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		fetcher := secguidehttp.NewFetcher()

		resp, err := fetcher.Fetch(context.Background(), server.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/new", resp.URL)
	})

	t.Run("maps error statuses to codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			code   string
		}{
			{http.StatusNotFound, secguide.ENOTFOUND},
			{http.StatusForbidden, secguide.EFORBIDDEN},
			{http.StatusBadRequest, secguide.EINVALID},
			{http.StatusInternalServerError, secguide.EINTERNAL},
			{http.StatusTooManyRequests, secguide.EINTERNAL},
		}

		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			fetcher := secguidehttp.NewFetcher()
			_, err := fetcher.Fetch(context.Background(), server.URL)
			server.Close()

			require.Error(t, err)
			assert.Equal(t, tt.code, secguide.ErrorCode(err), "status %d", tt.status)
			assert.Contains(t, err.Error(), "HTTP "+strconv.Itoa(tt.status))
		}
	})

	t.Run("returns empty body for empty HTML page", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}))
		defer server.Close()

		resp, err := secguidehttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, resp.IsHTML())
		assert.Empty(t, resp.Body)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
		}))
		defer server.Close()

		fetcher := secguidehttp.NewFetcher(secguidehttp.WithUserAgent("secguide-test/1.0"))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "secguide-test/1.0", got)
	})

	t.Run("defaults user agent to Mozilla/5.0", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
		}))
		defer server.Close()

		_, err := secguidehttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "Mozilla/5.0", got)
	})

	t.Run("returns EINVALID for malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := secguidehttp.NewFetcher().Fetch(context.Background(), "not a url")
		assert.Equal(t, secguide.EINVALID, secguide.ErrorCode(err))
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := secguidehttp.NewFetcher(secguidehttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := secguidehttp.NewFetcher().Fetch(ctx, server.URL)
		require.Error(t, err)
	})
}

func TestFetcher_Robots(t *testing.T) {
	t.Parallel()

	newServer := func(robots string, robotsHits *atomic.Int64) *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
			robotsHits.Add(1)
			if robots == "" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(robots))
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("ok"))
		})
		return httptest.NewServer(mux)
	}

	t.Run("returns EFORBIDDEN for disallowed paths", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := newServer("User-agent: *\nDisallow: /private/\n", &hits)
		defer server.Close()

		fetcher := secguidehttp.NewFetcher(secguidehttp.WithRobots(true))

		_, err := fetcher.Fetch(context.Background(), server.URL+"/private/page")
		assert.Equal(t, secguide.EFORBIDDEN, secguide.ErrorCode(err))

		resp, err := fetcher.Fetch(context.Background(), server.URL+"/public/page")
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body)
	})

	t.Run("fetches robots.txt once per host", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := newServer("User-agent: *\nDisallow: /private/\n", &hits)
		defer server.Close()

		fetcher := secguidehttp.NewFetcher(secguidehttp.WithRobots(true))
		for _, p := range []string{"/a", "/b", "/c"} {
			_, err := fetcher.Fetch(context.Background(), server.URL+p)
			require.NoError(t, err)
		}

		assert.Equal(t, int64(1), hits.Load())
	})

	t.Run("allows everything when robots.txt is missing", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := newServer("", &hits)
		defer server.Close()

		fetcher := secguidehttp.NewFetcher(secguidehttp.WithRobots(true))

		_, err := fetcher.Fetch(context.Background(), server.URL+"/private/page")
		require.NoError(t, err)
	})

	t.Run("ignores robots.txt unless enabled", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := newServer("User-agent: *\nDisallow: /\n", &hits)
		defer server.Close()

		_, err := secguidehttp.NewFetcher().Fetch(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, int64(0), hits.Load())
	})
}
