package session

import (
	"golang.org/x/oauth2"

	errs "github.com/stockyourlot/stocklot-client/internal/errors"
)

// TokenSource adapts the stored bearer credential to oauth2.TokenSource, so
// the session can feed any oauth2-aware HTTP stack. The token is re-read
// from the store on every call: a sign-out between requests is picked up
// immediately.
type TokenSource struct {
	store Store
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

// NewTokenSource creates a token source backed by the given store.
func NewTokenSource(store Store) *TokenSource {
	return &TokenSource{store: store}
}

// Token returns the stored bearer credential, or ErrNotAuthenticated when no
// session is present.
func (t *TokenSource) Token() (*oauth2.Token, error) {
	s := t.store.Get()
	if !s.Authenticated() {
		return nil, errs.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}, nil
}
