package policy

import (
	"strings"

	"contactManagement/models"
)

// LessUsers is the canonical listing order for user rows: role descending
// (most privileged first), inactive entries after active ones within the
// same role group, then username ascending (case-insensitive), with ID as
// the final tiebreaker to keep the order stable.
//
// The user repository enforces the same order in SQL; this comparator is
// the in-memory reference for anything that sorts user slices directly.
func LessUsers(a, b *models.User) bool {
	if a.Role.Rank() != b.Role.Rank() {
		return a.Role.Rank() > b.Role.Rank()
	}
	if a.IsActive != b.IsActive {
		return a.IsActive
	}
	an, bn := strings.ToLower(a.Username), strings.ToLower(b.Username)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}
