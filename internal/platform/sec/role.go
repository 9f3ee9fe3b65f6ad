// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// Role is the closed set of authorization roles an account can hold.
//
// Roles are not ordered. Every predicate that consumes a role switches over
// all three values explicitly.
type Role string

const (
	// RoleUser is the default role for self-registered accounts.
	RoleUser Role = "user"

	// RoleModerator can edit and delete any review or comment.
	RoleModerator Role = "moderator"

	// RoleAdmin manages users and the catalogue.
	RoleAdmin Role = "admin"
)

// Roles lists every valid role in declaration order.
func Roles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin}
}

// RoleNames returns the roles as plain strings (for validation messages).
func RoleNames() []string {
	names := make([]string, 0, 3)
	for _, role := range Roles() {
		names = append(names, string(role))
	}
	return names
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a [Role].
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}
