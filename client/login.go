package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/stockyourlot/stocklot-client/roles"
	"github.com/stockyourlot/stocklot-client/session"
	"github.com/stockyourlot/stocklot-client/token"
)

// loginResponse is the login contract. Newer backends return roles plus
// dealershipRoles; older ones returned a single roles array in the
// ADMIN/ASSOCIATE/BUYER vocabulary and no dealershipRoles field at all.
// Which landing-role resolver applies is decided by field presence, so
// DealershipRoles is a pointer: nil means the field was absent, not empty.
type loginResponse struct {
	Token           string                `json:"token"`
	Username        string                `json:"username"`
	Email           string                `json:"email"`
	Roles           []string              `json:"roles"`
	DealershipRoles *roles.ScopedRoleList `json:"dealershipRoles"`
	DealerName      string                `json:"dealerName"`
	DealershipName  string                `json:"dealershipName"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what a sign-in screen needs after a successful login.
type LoginResult struct {
	DisplayName string
	Email       string
	DealerName  string
	LandingRole roles.LandingRole
}

// Login authenticates with the backend and, on success, populates the
// session store in a single write: token, display name, dealer name,
// resolved landing role and the raw role strings.
//
// A rejected login surfaces the backend's message verbatim as *APIError and
// leaves any existing session untouched. Network failures propagate wrapped.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/login", nil, credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, false)
	if err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := decodeBody(res, &resp); err != nil {
		return nil, err
	}
	return c.establishSession(resp)
}

// establishSession resolves the landing role from a login-shaped response
// and writes the whole session atomically.
func (c *Client) establishSession(resp loginResponse) (*LoginResult, error) {
	// Some backend versions omit role fields from the body but embed them
	// in the JWT. Peek is unverified and informational only.
	if len(resp.Roles) == 0 && resp.DealershipRoles == nil && resp.Token != "" {
		if claims, err := token.Peek(resp.Token); err == nil && len(claims.Roles) > 0 {
			resp.Roles = claims.Roles
		}
	}

	landing := resolveLanding(resp)
	sess := session.Session{
		Token:       resp.Token,
		DisplayName: resp.Username,
		DealerName:  strings.TrimSpace(firstNonEmpty(resp.DealerName, resp.DealershipName)),
		LandingRole: landing,
		RawRoles:    resp.Roles,
	}
	if err := c.store.Put(sess); err != nil {
		return nil, err
	}
	c.log.Info().
		Str("landing_role", string(landing)).
		Str("user", resp.Username).
		Msg("session established")

	return &LoginResult{
		DisplayName: resp.Username,
		Email:       resp.Email,
		DealerName:  sess.DealerName,
		LandingRole: landing,
	}, nil
}

// resolveLanding picks the resolver variant by field presence: a
// dealershipRoles field (even an empty one) means the current contract; its
// absence means the legacy single-array contract.
func resolveLanding(resp loginResponse) roles.LandingRole {
	if resp.DealershipRoles != nil {
		return roles.ResolveLanding(resp.Roles, resp.DealershipRoles.Names())
	}
	return roles.ResolveLandingLegacy(resp.Roles)
}

// Logout clears the whole session. Safe to call when already signed out.
func (c *Client) Logout() error {
	return c.store.ClearAll()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
