package roles

import "strings"

// ResolveLanding resolves the landing role for the current backend contract:
// a roles array of global (cross-dealership) claims plus a dealershipRoles
// array of dealership-scoped claims. Global sales roles always outrank
// dealership-local roles - a Sales Admin at the org level is never demoted by
// a stale per-dealership "User" record.
//
// Pure and total: malformed or absent input resolves to LandingDealer.
func ResolveLanding(globalRoles []string, dealershipRoles []string) LandingRole {
	if ContainsCanonical(globalRoles, canonicalSalesAdmin) {
		return LandingAdmin
	}
	if ContainsCanonical(globalRoles, canonicalSalesAssociate) {
		return LandingAssociate
	}
	return resolveDealershipScoped(dealershipRoles)
}

// resolveDealershipScoped decides among dealership-scoped claims alone, with
// Sales_Admin > Sales_Associate > User. Matching mirrors what the backend
// actually sends: exact vocabulary or a lower-cased contains, so
// "ROLE_SALES_ADMIN" and "sales_admin" both count.
func resolveDealershipScoped(dealershipRoles []string) LandingRole {
	trimmed := make([]string, 0, len(dealershipRoles))
	for _, r := range dealershipRoles {
		trimmed = append(trimmed, strings.TrimSpace(r))
	}
	for _, r := range trimmed {
		if r == "Sales_Admin" || strings.Contains(strings.ToLower(r), canonicalSalesAdmin) {
			return LandingAdmin
		}
	}
	for _, r := range trimmed {
		if r == "Sales_Associate" || strings.Contains(strings.ToLower(r), canonicalSalesAssociate) {
			return LandingAssociate
		}
	}
	for _, r := range trimmed {
		if r == "User" || strings.EqualFold(r, "user") {
			return LandingDealer
		}
	}
	return LandingDealer
}

// ResolveLandingLegacy resolves the landing role for the older backend
// contract, which returned a single roles array using the
// ADMIN/ASSOCIATE/BUYER vocabulary (with or without ROLE_ prefixes) and no
// dealershipRoles field. Kept alongside ResolveLanding because both contract
// versions are still live; the client selects by which fields the login
// response carries.
func ResolveLandingLegacy(legacyRoles []string) LandingRole {
	if ContainsCanonical(legacyRoles, "admin") {
		return LandingAdmin
	}
	if ContainsCanonical(legacyRoles, "associate") {
		return LandingAssociate
	}
	return LandingDealer
}
