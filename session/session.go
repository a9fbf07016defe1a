// Package session holds the client-local projection of the authenticated
// user: the bearer token plus the handful of identity fields read on every
// protected render. The projection is persisted so it survives restarts; it
// has no client-side expiry - a stale token is discovered via a 401 from the
// backend, not a stored timestamp.
package session

import "github.com/stockyourlot/stocklot-client/roles"

// Session is the persisted identity snapshot. A session is either fully
// authenticated (token and landing role present) or fully absent; there is
// no half-populated state after login or sign-out.
type Session struct {
	// Token is the opaque bearer credential. Present iff authenticated.
	Token string `json:"token,omitempty"`
	// DisplayName is the human name for greeting/header UI.
	DisplayName string `json:"displayName,omitempty"`
	// DealerName is the dealership context returned by login, when any.
	DealerName string `json:"dealerName,omitempty"`
	// LandingRole is the resolved permission level, computed once at login
	// and cached - it is not recomputed on later reads.
	LandingRole roles.LandingRole `json:"landingRole,omitempty"`
	// RawRoles keeps the original role strings for finer-grained checks
	// than the coarse landing role.
	RawRoles []string `json:"rawRoles,omitempty"`
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
