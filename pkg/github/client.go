// Package github is the thin REST layer gogreen uses to open, merge and clean
// up pull requests. It wraps go-github and reports every non-2xx response as
// an *APIError. Nothing is retried.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com/"

const defaultTimeout = 30 * time.Second

// Client is a GitHub REST client bound to one token.
type Client struct {
	gh   *github.Client
	rate *RateLimitTracker
}

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client. When a token is present the
// client's transport is wrapped with oauth2 authentication.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// NewClient creates a client. An empty token yields an unauthenticated client,
// which can read public data but will be refused on every write.
func NewClient(token string, opts ...Option) (*Client, error) {
	o := clientOptions{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}

	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		authed.Timeout = hc.Timeout
		hc = authed
	}

	gh := github.NewClient(hc)

	base := o.baseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", o.baseURL, err)
	}
	gh.BaseURL = parsed

	return &Client{
		gh:   gh,
		rate: NewRateLimitTracker(),
	}, nil
}

// RateLimit returns the last quota reported by the API.
func (c *Client) RateLimit() RateLimitStatus {
	return c.rate.GetStatus()
}
