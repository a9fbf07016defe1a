package session

import "github.com/stockyourlot/stocklot-client/roles"

// Store is durable key/value persistence for the identity session.
//
// Reads never fail: an absent or unreadable session reads as the zero
// Session. Every set is a durable write; setting a field to its zero value
// removes it rather than storing an empty marker. ClearAll removes every
// field and is idempotent - readers observe either the full session or none
// of it, never a partial clear.
type Store interface {
	// Get returns the current session snapshot.
	Get() Session
	// Put replaces the whole session in one durable write. Used after a
	// successful login so readers never observe a half-populated session.
	Put(s Session) error

	SetToken(token string) error
	SetDisplayName(name string) error
	SetDealerName(name string) error
	SetLandingRole(role roles.LandingRole) error
	SetRawRoles(rawRoles []string) error

	// ClearAll removes every field atomically from the perspective of
	// subsequent reads.
	ClearAll() error
}
