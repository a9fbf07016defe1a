// Package client talks to the Stock Your Lot REST backend. All authenticated
// traffic goes through Do, which attaches the stored bearer credential and
// uniformly handles session expiry: a 401 from any endpoint clears the whole
// session and notifies the one registered unauthorized handler, so every call
// site gets that behavior for free.
package client

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stockyourlot/stocklot-client/session"
)

// Client is a Stock Your Lot API client bound to a session store.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          session.Store
	tokens         *session.TokenSource
	onUnauthorized func()
	log            zerolog.Logger
}

// Option modifies the Client during construction.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithUnauthorizedHandler registers the single handler invoked after a 401
// has cleared the session. The navigation-to-sign-in side effect belongs
// here, at one designated top level, not inside the transport.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		if fn != nil {
			c.onUnauthorized = fn
		}
	}
}

// New creates a client for the backend at baseURL, reading and writing the
// given session store.
func New(baseURL string, store session.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("[client.New] session store is required")
	}
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		store:          store,
		tokens:         session.NewTokenSource(store),
		onUnauthorized: func() {},
		log:            zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Store exposes the session store the client was built with.
func (c *Client) Store() session.Store {
	return c.store
}
