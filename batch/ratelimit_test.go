package batch_test

import (
	"context"
	"testing"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/dmtanner/authenticated-webscraper/batch"
	"github.com/dmtanner/authenticated-webscraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitTwice reports how long the second of two back-to-back waits blocked.
func waitTwice(t *testing.T, l *batch.DomainLimiter, first, second string) time.Duration {
	t.Helper()

	require.NoError(t, l.Wait(context.Background(), first))
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), second))
	return time.Since(start)
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first download from a host is immediate", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		err := batch.NewDomainLimiter(10).Wait(context.Background(), "app.example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces out downloads from one host", func(t *testing.T) {
		t.Parallel()

		elapsed := waitTwice(t, batch.NewDomainLimiter(10), "app.example.com", "app.example.com")

		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	})

	t.Run("hosts have separate buckets", func(t *testing.T) {
		t.Parallel()

		l := batch.NewDomainLimiter(10)
		elapsed := waitTwice(t, l, "app.example.com", "files.example.com")

		assert.Less(t, elapsed, 50*time.Millisecond)
		assert.Equal(t, 2, l.Hosts())
	})

	t.Run("spellings of one host share a bucket", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			first  string
			second string
		}{
			{"case", "app.example.com", "App.Example.COM"},
			{"default https port", "app.example.com", "app.example.com:443"},
			{"default http port", "app.example.com:80", "app.example.com"},
			{"URL", "https://app.example.com/docs/1", "app.example.com"},
			{"trailing dot", "app.example.com.", "app.example.com"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				l := batch.NewDomainLimiter(10)
				elapsed := waitTwice(t, l, tt.first, tt.second)

				assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
				assert.Equal(t, 1, l.Hosts())
			})
		}
	})

	t.Run("other ports are other hosts", func(t *testing.T) {
		t.Parallel()

		l := batch.NewDomainLimiter(10)
		elapsed := waitTwice(t, l, "127.0.0.1:8080", "127.0.0.1:9090")

		assert.Less(t, elapsed, 50*time.Millisecond)
		assert.Equal(t, 2, l.Hosts())
	})

	t.Run("non-positive rate does not limit", func(t *testing.T) {
		t.Parallel()

		l := batch.NewDomainLimiter(0)
		for range 5 {
			require.NoError(t, l.Wait(context.Background(), "app.example.com"))
		}

		assert.Equal(t, 0, l.Hosts())
	})

	t.Run("canceled context stops the wait", func(t *testing.T) {
		t.Parallel()

		l := batch.NewDomainLimiter(1)
		require.NoError(t, l.Wait(context.Background(), "app.example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "app.example.com"))
	})

	t.Run("disabled limiter still honors a canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, batch.NewDomainLimiter(0).Wait(ctx, "app.example.com"), context.Canceled)
	})
}

func TestRunner_RateLimitsByDocumentHost(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*webscraper.Download, error) {
			return &webscraper.Download{URL: url, Body: []byte(proposalText)}, nil
		},
	}

	t.Run("rewritten references share the prefix host", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewDomainLimiter(10)
		r := &batch.Runner{
			Fetcher:   fetcher,
			Converter: passthroughConverter(),
			Limiter:   limiter,
			Prefix:    "https://files.example.com/pdf/",
		}

		start := time.Now()
		results := r.Run(context.Background(), []string{
			"https://crm-a.example.com/proposals/1",
			"https://crm-b.example.com/proposals/2",
		}, nil)

		for _, res := range results {
			require.NoError(t, res.Err)
		}
		assert.Equal(t, 1, limiter.Hosts())
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("documents on different hosts do not wait for each other", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewDomainLimiter(10)
		r := &batch.Runner{
			Fetcher:   fetcher,
			Converter: passthroughConverter(),
			Limiter:   limiter,
		}

		start := time.Now()
		results := r.Run(context.Background(), []string{
			"https://a.example.com/1.pdf",
			"https://b.example.com/2.pdf",
		}, nil)

		for _, res := range results {
			require.NoError(t, res.Err)
		}
		assert.Equal(t, 2, limiter.Hosts())
		assert.Less(t, time.Since(start), 80*time.Millisecond)
	})
}
