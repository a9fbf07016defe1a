// Package token peeks at the bearer JWT issued by the backend. The client
// never verifies signatures or enforces expiry locally - a stale token is
// discovered via a 401 - so parsing here is unverified and informational
// only: display in whoami-style output, and a roles fallback when a login
// response carries a token but no role fields.
package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims are the fields of interest from a backend-issued access token.
// Fields the token does not carry are left zero.
type Claims struct {
	Subject   string
	Email     string
	Roles     []string
	ExpiresAt time.Time
}

// Peek extracts claims from rawToken without verifying the signature.
func Peek(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("[token.Peek] empty token")
	}
	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[token.Peek] ParseUnverified")
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[token.Peek] error extracting claims")
	}

	c := &Claims{}
	c.Subject, _ = mapClaims["sub"].(string)
	c.Email, _ = mapClaims["email"].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if rawRoles, ok := mapClaims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	}
	return c, nil
}

// Expired reports whether the token carried an exp claim that is in the
// past. Informational only - the backend's 401 is the authoritative signal.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
