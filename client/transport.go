package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Do performs an authenticated request and decodes a JSON response into out
// (out may be nil to discard the body). The stored bearer token, when
// present, is attached as an Authorization header.
//
// On 401 the session is cleared, the unauthorized handler runs, and
// ErrSessionExpired is returned. Other non-2xx statuses come back as
// *APIError and are not interpreted. Transport failures (no response at all)
// propagate wrapped and never touch the session - a network error is not a
// session expiry. Nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.DoWithHeaders(ctx, method, path, nil, body, out)
}

// DoWithHeaders is Do with caller-supplied headers. Caller headers are
// preserved; the bearer header is applied on top of them, as the wrapper
// owns the credential.
func (c *Client) DoWithHeaders(ctx context.Context, method, path string, header http.Header, body, out interface{}) error {
	res, err := c.sendWithHeaders(ctx, method, path, nil, header, body, true)
	if err != nil {
		return err
	}
	return decodeBody(res, out)
}

// send builds and performs a request, returning an open response body only
// for 2xx statuses. authed controls bearer injection and 401 handling; the
// login and invite endpoints run unauthenticated, where a 401 means bad
// credentials, not an expired session.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}, authed bool) (*http.Response, error) {
	return c.sendWithHeaders(ctx, method, path, query, nil, body, authed)
}

func (c *Client) sendWithHeaders(ctx context.Context, method, path string, query url.Values, header http.Header, body interface{}, authed bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.send] marshal body")
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.send] NewRequest")
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	if authed {
		// The bearer header is only added when a token is actually stored.
		if tok, err := c.tokens.Token(); err == nil {
			tok.SetAuthHeader(req)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.send] request failed")
	}

	if authed && res.StatusCode == http.StatusUnauthorized {
		res.Body.Close()
		c.expireSession()
		return nil, ErrSessionExpired
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer res.Body.Close()
		return nil, c.apiError(res)
	}
	return res, nil
}

// expireSession clears every persisted field and notifies the registered
// handler. ClearAll is idempotent, so two near-simultaneous 401s still end
// in a single fully signed-out state.
func (c *Client) expireSession() {
	if err := c.store.ClearAll(); err != nil {
		c.log.Error().Err(err).Msg("clearing session after 401")
	}
	c.log.Info().Msg("session expired, signed out")
	c.onUnauthorized()
}

// apiError surfaces the backend's message|error body verbatim, with the
// status code as a generic fallback when the body is unparseable or empty.
func (c *Client) apiError(res *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	msg := ""
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Err
		}
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg}
}

func decodeBody(res *http.Response, out interface{}) error {
	defer res.Body.Close()
	if out == nil {
		return nil
	}
	// An empty 2xx body is fine; out keeps its zero value.
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrap(err, "[client] decode response")
	}
	return nil
}
