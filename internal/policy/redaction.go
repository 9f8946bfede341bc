package policy

import (
	"contactManagement/models"
)

// Field names that a redaction profile may suppress on a serialized user.
const (
	FieldContactsCount    = "contacts_count"
	FieldIsActive         = "is_active"
	FieldIsEmailConfirmed = "is_email_confirmed"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"
)

// RedactionProfile is the set of field names hidden from a serialized
// target. A nil profile means full visibility.
type RedactionProfile map[string]struct{}

// Hides reports whether the profile suppresses the given field.
func (p RedactionProfile) Hides(field string) bool {
	_, ok := p[field]
	return ok
}

// peerProfile hides stats and account state from peer-or-above rows.
var peerProfile = RedactionProfile{
	FieldContactsCount:    {},
	FieldIsActive:         {},
	FieldIsEmailConfirmed: {},
	FieldCreatedAt:        {},
	FieldUpdatedAt:        {},
}

// UserRedaction returns the redaction profile a subject gets when reading
// a user target. It depends only on the two roles and self-identity, never
// on the calling endpoint, so the same profile applies to listings and
// detail reads alike.
//
// Full visibility: SUPERADMIN subjects, self, and MODERATOR/USER targets.
// Everything else (an ADMIN reading another ADMIN) hides contact counts
// and account state.
func UserRedaction(subject Subject, targetRole models.Role, targetID int64) RedactionProfile {
	if subject.Role == models.RoleSuperadmin || subject.ID == targetID {
		return nil
	}
	if targetRole == models.RoleModerator || targetRole == models.RoleUser {
		return nil
	}
	return peerProfile
}

// RedactUserStats applies a redaction profile to a listing row in place.
func RedactUserStats(u *models.UserWithStats, p RedactionProfile) {
	if p.Hides(FieldContactsCount) {
		u.ContactsCount = nil
	}
	if p.Hides(FieldIsActive) {
		u.IsActive = nil
	}
	if p.Hides(FieldIsEmailConfirmed) {
		u.IsEmailConfirmed = nil
	}
	if p.Hides(FieldCreatedAt) {
		u.CreatedAt = ""
	}
	if p.Hides(FieldUpdatedAt) {
		u.UpdatedAt = ""
	}
}
