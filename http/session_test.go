package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	scraperhttp "github.com/dmtanner/authenticated-webscraper/http"
	"github.com/dmtanner/authenticated-webscraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok123"

// newTestApp serves a form login that sets a session cookie, and documents
// that are only readable with that cookie.
func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta name="csrf-token" content="` + testToken + `"></head></html>`))
	})
	mux.HandleFunc("POST /user_sessions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		ok := r.PostFormValue("authenticity_token") == testToken &&
			r.PostFormValue("user_session[email]") == "user@example.com" &&
			r.PostFormValue("user_session[password]") == "secret" &&
			r.Header.Get("Referer") != ""
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "valid", Path: "/"})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("GET /dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("welcome"))
	})
	mux.HandleFunc("GET /docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil || c.Value != "valid" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if r.PathValue("id") == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("Term:\n12 months\n"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func tokenFinder(token string) *mock.TokenFinder {
	return &mock.TokenFinder{
		FindTokenFn: func(html string) (webscraper.Value, error) {
			if token == "" {
				return webscraper.Value{}, nil
			}
			return webscraper.Found(token), nil
		},
	}
}

func newSession(t *testing.T, baseURL, password, token string, opts ...scraperhttp.Option) *scraperhttp.Session {
	t.Helper()

	s, err := scraperhttp.NewSession(scraperhttp.Config{
		BaseURL:  baseURL,
		Username: "user@example.com",
		Password: password,
	}, tokenFinder(token), opts...)
	require.NoError(t, err)
	return s
}

func TestSession_Login(t *testing.T) {
	t.Parallel()

	t.Run("logs in and fetches protected documents", func(t *testing.T) {
		t.Parallel()

		server := newTestApp(t)
		s := newSession(t, server.URL, "secret", testToken)

		require.NoError(t, s.Login(context.Background()))

		d, err := s.Fetch(context.Background(), server.URL+"/docs/1")
		require.NoError(t, err)
		assert.Equal(t, "Term:\n12 months\n", string(d.Body))
		assert.Equal(t, "application/pdf", d.ContentType)
		assert.Equal(t, server.URL+"/docs/1", d.URL)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		t.Parallel()

		server := newTestApp(t)
		s := newSession(t, server.URL, "wrong", testToken)

		err := s.Login(context.Background())

		require.Error(t, err)
		assert.Equal(t, webscraper.EFETCH, webscraper.ErrorCode(err))
	})

	t.Run("fails without csrf token", func(t *testing.T) {
		t.Parallel()

		server := newTestApp(t)
		s := newSession(t, server.URL, "secret", "")

		err := s.Login(context.Background())

		require.Error(t, err)
		assert.Contains(t, webscraper.ErrorMessage(err), "csrf token")
	})

	t.Run("fails when login page is unavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()
		s := newSession(t, server.URL, "secret", testToken)

		err := s.Login(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})
}

func TestSession_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("reports unauthenticated fetches", func(t *testing.T) {
		t.Parallel()

		server := newTestApp(t)
		s := newSession(t, server.URL, "secret", testToken)

		_, err := s.Fetch(context.Background(), server.URL+"/docs/1")

		require.Error(t, err)
		assert.Equal(t, webscraper.EFETCH, webscraper.ErrorCode(err))
		assert.Contains(t, webscraper.ErrorMessage(err), "not authenticated")
	})

	t.Run("returns error for non-200 status codes", func(t *testing.T) {
		t.Parallel()

		server := newTestApp(t)
		s := newSession(t, server.URL, "secret", testToken)
		require.NoError(t, s.Login(context.Background()))

		_, err := s.Fetch(context.Background(), server.URL+"/docs/missing")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()
		s := newSession(t, server.URL, "secret", testToken, scraperhttp.WithTimeout(10*time.Millisecond))

		_, err := s.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, webscraper.EFETCH, webscraper.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := newTestApp(t)
		s := newSession(t, server.URL, "secret", testToken)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Fetch(ctx, server.URL+"/docs/1")
		require.Error(t, err)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, "http://non-existent-host.invalid", "secret", testToken, scraperhttp.WithTimeout(100*time.Millisecond))

		_, err := s.Fetch(context.Background(), "http://non-existent-host.invalid/docs/1")
		require.Error(t, err)
	})
}

func TestNewSession_Validates(t *testing.T) {
	t.Parallel()

	_, err := scraperhttp.NewSession(scraperhttp.Config{Username: "u", Password: "p"}, tokenFinder(testToken))
	assert.Equal(t, webscraper.EINVALID, webscraper.ErrorCode(err))

	_, err = scraperhttp.NewSession(scraperhttp.Config{BaseURL: "https://example.com"}, tokenFinder(testToken))
	assert.Equal(t, webscraper.EINVALID, webscraper.ErrorCode(err))
}

func TestConfig_URLs(t *testing.T) {
	t.Parallel()

	cfg := scraperhttp.Config{BaseURL: "https://app.example.com/", LoginPath: "/signin", SessionPath: "/sessions"}

	assert.Equal(t, "https://app.example.com/signin", cfg.LoginURL())
	assert.Equal(t, "https://app.example.com/sessions", cfg.SessionURL())
}

// Compile-time verification that Session implements webscraper.Fetcher
var _ webscraper.Fetcher = (*scraperhttp.Session)(nil)
