// Package roles canonicalises the role claims the Stock Your Lot backend
// attaches to a login and resolves them into a single landing role. The
// backend has gone through several vocabularies (Sales_Admin vs ROLE_ADMIN,
// hyphens vs underscores, per-dealership records vs bare strings), so all
// matching here is deliberately tolerant of casing and formatting.
package roles

import "strings"

// LandingRole is the single coarse permission level a session resolves to at
// login time. It drives dashboard selection and route gating. Exactly one
// value at a time, never a set.
type LandingRole string

const (
	LandingAdmin     LandingRole = "admin"
	LandingAssociate LandingRole = "associate"
	LandingDealer    LandingRole = "dealer"
)

// Canonical buckets, highest privilege first.
const (
	canonicalSalesAdmin     = "sales_admin"
	canonicalSalesAssociate = "sales_associate"
)

// Normalize canonicalises a role string for comparison: trims whitespace,
// lower-cases, and folds hyphens to underscores. Total - any input yields a
// string, blank input yields the empty string.
func Normalize(role string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(role)), "-", "_")
}

// ContainsCanonical reports whether any entry of list, once normalized,
// contains canonical as a substring. Substring rather than exact match is a
// documented contract, not an accident: "ROLE_SALES_ADMIN" and
// "sales_admin_na" both match "sales_admin". A nil or empty list never
// matches.
func ContainsCanonical(list []string, canonical string) bool {
	if canonical == "" {
		return false
	}
	for _, r := range list {
		if strings.Contains(Normalize(r), canonical) {
			return true
		}
	}
	return false
}

// ParseLanding maps a persisted landing-role value back to a LandingRole.
// Unrecognised input degrades to LandingDealer, the least-privileged area -
// never "no access", never admin.
func ParseLanding(s string) LandingRole {
	switch LandingRole(Normalize(s)) {
	case LandingAdmin:
		return LandingAdmin
	case LandingAssociate:
		return LandingAssociate
	default:
		return LandingDealer
	}
}
