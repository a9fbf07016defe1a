package roles

import "encoding/json"

// DealershipRole is a role claim scoped to a single dealership.
type DealershipRole struct {
	DealershipID string `json:"dealershipId,omitempty"`
	Role         string `json:"role"`
}

// ScopedRoleList accepts both wire shapes the backend has used for
// dealership-scoped roles: bare strings (["User"]) and records
// ([{"dealershipId":"d1","role":"Sales_Admin"}]). Entries that are neither
// are skipped rather than failing the whole login decode - malformed role
// data degrades, it never errors.
type ScopedRoleList []DealershipRole

func (l *ScopedRoleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Tolerate a single bare string where an array was expected.
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*l = ScopedRoleList{{Role: s}}
			return nil
		}
		*l = nil
		return nil
	}
	out := make(ScopedRoleList, 0, len(raw))
	for _, entry := range raw {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			out = append(out, DealershipRole{Role: s})
			continue
		}
		var rec DealershipRole
		if err := json.Unmarshal(entry, &rec); err == nil && rec.Role != "" {
			out = append(out, rec)
		}
	}
	*l = out
	return nil
}

// Names returns the role names in order, dropping the dealership scope.
func (l ScopedRoleList) Names() []string {
	if len(l) == 0 {
		return nil
	}
	names := make([]string, 0, len(l))
	for _, r := range l {
		names = append(names, r.Role)
	}
	return names
}
