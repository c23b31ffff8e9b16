package domain

import "strings"

// Role represents a coarse user tier. Every account carries at least
// RoleFree; RoleAdmin grants access to the administrative surface.
type Role string

const (
	RoleFree    Role = "FREE_USER"
	RolePremium Role = "PREMIUM_USER"
	RoleAdmin   Role = "ADMIN_USER"
)

func (r Role) String() string { return string(r) }

// ParseRoles decodes a comma separated role list as stored in the
// database. Unknown entries are preserved verbatim so a forward
// migration adding roles never drops data on the read path.
func ParseRoles(s string) []Role {
	if s == "" {
		return []Role{RoleFree}
	}
	parts := strings.Split(s, ",")
	roles := make([]Role, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		roles = append(roles, Role(part))
	}
	if len(roles) == 0 {
		return []Role{RoleFree}
	}
	return roles
}

// JoinRoles is the inverse of ParseRoles.
func JoinRoles(roles []Role) string {
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, role.String())
	}
	return strings.Join(parts, ",")
}
