// Package http provides an authenticated HTTP session implementing
// webscraper.Fetcher. The session logs in through the application's form
// login, keeps the resulting cookies and downloads documents with them.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// Defaults for the form login of the web application.
const (
	DefaultLoginPath     = "/login"
	DefaultSessionPath   = "/user_sessions"
	DefaultEmailField    = "user_session[email]"
	DefaultPasswordField = "user_session[password]"
	DefaultTokenField    = "authenticity_token"
)

// Ensure Session implements webscraper.Fetcher at compile time.
var _ webscraper.Fetcher = (*Session)(nil)

// Config holds the location of the web application and the credentials
// used to log in to it.
type Config struct {
	BaseURL     string
	LoginPath   string // page carrying the anti-forgery token
	SessionPath string // form post target

	Username string
	Password string

	EmailField    string
	PasswordField string
	TokenField    string
}

// Validate returns an error if the config is missing required fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return webscraper.Errorf(webscraper.EINVALID, "base URL required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return webscraper.Errorf(webscraper.EINVALID, "invalid base URL: %v", err)
	}
	if c.Username == "" || c.Password == "" {
		return webscraper.Errorf(webscraper.EINVALID, "username and password required")
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.LoginPath == "" {
		c.LoginPath = DefaultLoginPath
	}
	if c.SessionPath == "" {
		c.SessionPath = DefaultSessionPath
	}
	if c.EmailField == "" {
		c.EmailField = DefaultEmailField
	}
	if c.PasswordField == "" {
		c.PasswordField = DefaultPasswordField
	}
	if c.TokenField == "" {
		c.TokenField = DefaultTokenField
	}
}

// LoginURL returns the URL of the login page.
func (c *Config) LoginURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.LoginPath
}

// SessionURL returns the URL the login form posts to.
func (c *Config) SessionURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.SessionPath
}

// Session is an authenticated HTTP session.
type Session struct {
	cfg       Config
	loginPath string
	tokens    webscraper.TokenFinder
	client    *http.Client
	timeout   time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// NewSession creates a Session for cfg. Login must be called before Fetch.
func NewSession(cfg Config, tokens webscraper.TokenFinder, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	login, err := url.Parse(cfg.LoginURL())
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "invalid login URL: %v", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	s := &Session{
		cfg:       cfg,
		loginPath: login.Path,
		tokens:    tokens,
		timeout:   DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Jar:     jar,
		Timeout: s.timeout,
	}

	return s, nil
}

// Login reads the anti-forgery token from the login page and posts the
// credentials with it. The session cookies set by the application are kept
// for subsequent fetches.
func (s *Session) Login(ctx context.Context) error {
	loginURL := s.cfg.LoginURL()

	page, err := s.get(ctx, loginURL)
	if err != nil {
		return err
	}

	token, err := s.tokens.FindToken(string(page.body))
	if err != nil {
		return webscraper.Errorf(webscraper.EFETCH, "failed to read login page: %v", err)
	}
	if !token.OK() {
		return webscraper.Errorf(webscraper.EFETCH, "no csrf token on %s", loginURL)
	}

	form := url.Values{}
	form.Set(s.cfg.EmailField, s.cfg.Username)
	form.Set(s.cfg.PasswordField, s.cfg.Password)
	form.Set(s.cfg.TokenField, token.String())

	sessionURL := s.cfg.SessionURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sessionURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", sessionURL)

	resp, err := s.client.Do(req)
	if err != nil {
		return webscraper.Errorf(webscraper.EFETCH, "login failed: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return webscraper.Errorf(webscraper.EFETCH, "login failed: HTTP %d", resp.StatusCode)
	}
	if s.onLoginPage(resp.Request.URL) {
		return webscraper.Errorf(webscraper.EFETCH, "login rejected for %s", s.cfg.Username)
	}

	return nil
}

// Fetch downloads the document at url using the session cookies.
func (s *Session) Fetch(ctx context.Context, url string) (*webscraper.Download, error) {
	page, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if s.onLoginPage(page.finalURL) {
		return nil, webscraper.Errorf(webscraper.EFETCH, "not authenticated: %s redirected to login", url)
	}

	return &webscraper.Download{
		URL:         url,
		ContentType: page.contentType,
		Body:        page.body,
	}, nil
}

type response struct {
	body        []byte
	contentType string
	finalURL    *url.URL
}

func (s *Session) get(ctx context.Context, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EINVALID, "invalid URL %q: %v", url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EFETCH, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, webscraper.Errorf(webscraper.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, webscraper.Errorf(webscraper.EFETCH, "reading %s: %v", url, err)
	}

	return &response{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
		finalURL:    resp.Request.URL,
	}, nil
}

// onLoginPage reports whether u is the login page, which the application
// redirects to when a request is not authenticated.
func (s *Session) onLoginPage(u *url.URL) bool {
	return u != nil && u.Path == s.loginPath
}
