// Package guard gates rendering and navigation of protected screens on the
// contents of the session store.
package guard

import (
	"strings"

	"github.com/stockyourlot/stocklot-client/roles"
	"github.com/stockyourlot/stocklot-client/session"
)

// Decision says what a screen should do with the current session. "Not
// logged in" and "logged in but insufficient privilege" deliberately map to
// different redirect targets.
type Decision int

const (
	// Allowed renders the screen.
	Allowed Decision = iota
	// SignInRequired redirects to the sign-in entry point.
	SignInRequired
	// Forbidden redirects to the default authenticated landing screen.
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case SignInRequired:
		return "sign-in required"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Guard answers authorization questions against a session store.
type Guard struct {
	store session.Store
}

// New creates a guard reading from the given store.
func New(store session.Store) Guard {
	return Guard{store: store}
}

// IsAuthenticated reports whether a bearer token is stored. This is the
// coarsest gate: not logged in always means sign-in, regardless of role.
func (g Guard) IsAuthenticated() bool {
	return g.store.Get().Authenticated()
}

// HasRole checks the stored raw roles against role, tolerant of casing and
// prefix noise the same way the resolver is: normalized equality or either
// string being a suffix of the other, so "ROLE_ADMIN" satisfies
// HasRole("admin").
//
// Sessions created before raw roles were tracked carry only the cached
// landing role; when the raw list is absent the check falls back to
// comparing against it, so a session with just landingRole=admin still
// satisfies HasRole("ADMIN"). That fallback is a compatibility affordance,
// not an accident.
func (g Guard) HasRole(role string) bool {
	want := roles.Normalize(role)
	if want == "" {
		return false
	}
	s := g.store.Get()
	for _, r := range s.RawRoles {
		have := roles.Normalize(r)
		if have == "" {
			continue
		}
		if have == want || strings.HasSuffix(have, want) || strings.HasSuffix(want, have) {
			return true
		}
	}
	if s.LandingRole != "" && roles.Normalize(string(s.LandingRole)) == want {
		return true
	}
	return false
}

// HasAnyRole reports whether HasRole holds for at least one entry.
func (g Guard) HasAnyRole(roleNames ...string) bool {
	for _, r := range roleNames {
		if g.HasRole(r) {
			return true
		}
	}
	return false
}

// Authorize gates a screen that requires any of the given roles. With no
// required roles it only checks authentication.
func (g Guard) Authorize(required ...string) Decision {
	if !g.IsAuthenticated() {
		return SignInRequired
	}
	if len(required) == 0 {
		return Allowed
	}
	if g.HasAnyRole(required...) {
		return Allowed
	}
	return Forbidden
}

// Landing returns the cached landing role. A session that predates role
// tracking, or one persisted with a value outside the vocabulary, defaults
// low rather than failing.
func (g Guard) Landing() roles.LandingRole {
	return roles.ParseLanding(string(g.store.Get().LandingRole))
}
