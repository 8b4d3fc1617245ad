package entity

import (
	"slices"
	"strings"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleUser, RoleAdmin}

func (r Role) Valid() bool { return slices.Contains(Roles, r) }

// RoleHint is the validation message for an unknown role.
func RoleHint() string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return "must be one of: " + strings.Join(names, ", ")
}

func (r Role) String() string { return string(r) }

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}
