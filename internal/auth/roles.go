package auth

import "strings"

// Role is the caller's role as carried in the credential's claim set.
// The canonical form is lower case.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleUser   Role = "user"
)

// springRolePrefix is prepended by the auth service's Spring Security layer.
const springRolePrefix = "role_"

// Roles lists every recognized role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSeller, RoleUser}
}

// ParseRole normalizes a raw claim value. The boolean is false for anything
// outside the closed role set.
func ParseRole(raw string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, springRolePrefix)

	role := Role(normalized)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
