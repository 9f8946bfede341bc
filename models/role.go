package models

import (
	"fmt"
	"strings"
)

// Role represents a user's permission level. Roles are ordered:
// USER < MODERATOR < ADMIN < SUPERADMIN.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// roleRanks maps each role to its position in the hierarchy.
// Unknown roles rank below USER.
var roleRanks = map[Role]int{
	RoleUser:       1,
	RoleModerator:  2,
	RoleAdmin:      3,
	RoleSuperadmin: 4,
}

// Rank returns the numeric position of the role in the hierarchy.
// Returns 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r is at least as privileged as other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}
