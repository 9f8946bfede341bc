// Package policy implements the authorization decision engine.
//
// Every decision is a pure function of the subject (the authenticated
// caller), the target record, and the requested operation. The engine
// performs no I/O and holds no state, so identical inputs always yield
// identical verdicts.
//
// Two independent rule sets apply:
//   - User targets follow the role hierarchy (see AuthorizeUser).
//   - Contact targets are strictly owner-only; no role bypasses
//     ownership (see AuthorizeContact).
package policy

import (
	"contactManagement/models"
)

// Subject is the authenticated caller of a request.
type Subject struct {
	ID       int64
	Role     models.Role
	IsActive bool
}

// Operation identifies what the subject is trying to do to the target.
type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

// Effect is the outcome class of an authorization decision.
type Effect int

const (
	// EffectAllow grants the operation, possibly with field redaction.
	EffectAllow Effect = iota
	// EffectForbidden denies with an explicit permission error.
	EffectForbidden
	// EffectNotFound denies while hiding whether the target exists.
	EffectNotFound
	// EffectInactive denies because the subject account is disabled.
	// Always evaluated before any role or ownership check.
	EffectInactive
)

// Verdict is the engine's decision: an effect, an optional reason for
// denials, and a redaction profile for allowed reads.
type Verdict struct {
	Effect Effect
	Reason string
	Redact RedactionProfile
}

// Allowed reports whether the verdict grants the operation.
func (v Verdict) Allowed() bool { return v.Effect == EffectAllow }

func allow(r RedactionProfile) Verdict {
	return Verdict{Effect: EffectAllow, Redact: r}
}

func deny(e Effect, reason string) Verdict {
	return Verdict{Effect: e, Reason: reason}
}

// AuthorizeUser decides whether subject may perform op on the target user
// via the admin surface.
//
// Rules, in evaluation order:
//   - an inactive subject is rejected before anything else, for every role;
//   - SUPERADMIN targets are invisible (not-found, never forbidden) to all
//     other subjects, so their existence cannot be probed; a SUPERADMIN may
//     read itself but may not update or delete itself through this surface;
//   - USER and MODERATOR subjects have no access to the surface at all;
//   - ADMIN subjects have full access to MODERATOR and USER targets,
//     redacted read-only access to other ADMIN targets, and may not update
//     or delete themselves here;
//   - SUPERADMIN subjects have full access to all non-SUPERADMIN targets.
func AuthorizeUser(subject Subject, target *models.User, op Operation) Verdict {
	if !subject.IsActive {
		return deny(EffectInactive, "user account is inactive")
	}

	if target.Role == models.RoleSuperadmin {
		if subject.Role != models.RoleSuperadmin || subject.ID != target.ID {
			// Collapse to not-found so callers cannot confirm that a
			// superadmin account exists.
			return deny(EffectNotFound, "user not found")
		}
		if op == OpRead {
			return allow(nil)
		}
		return deny(EffectForbidden, "superadmin cannot modify itself via the admin surface")
	}

	switch subject.Role {
	case models.RoleSuperadmin:
		return allow(UserRedaction(subject, target.Role, target.ID))

	case models.RoleAdmin:
		if subject.ID == target.ID && (op == OpUpdate || op == OpDelete) {
			return deny(EffectForbidden, "self-update is not allowed via the admin surface")
		}
		if target.Role == models.RoleAdmin {
			if op != OpRead {
				return deny(EffectForbidden, "admins cannot modify other admins")
			}
			return allow(UserRedaction(subject, target.Role, target.ID))
		}
		return allow(UserRedaction(subject, target.Role, target.ID))

	default:
		return deny(EffectForbidden, string(subject.Role)+" has no access to user administration")
	}
}

// AuthorizeUserCreate decides whether subject may create a new user with
// the given role. Creating SUPERADMIN accounts is denied for everyone;
// MODERATOR and USER subjects may not create accounts at all.
func AuthorizeUserCreate(subject Subject, newRole models.Role) Verdict {
	if !subject.IsActive {
		return deny(EffectInactive, "user account is inactive")
	}
	if newRole == models.RoleSuperadmin {
		return deny(EffectForbidden, "creating superadmin accounts is restricted")
	}
	switch subject.Role {
	case models.RoleSuperadmin, models.RoleAdmin:
		return allow(nil)
	default:
		return deny(EffectForbidden, string(subject.Role)+" is not allowed to create users")
	}
}

// AuthorizeContact decides whether subject may act on a contact owned by
// ownerID. Ownership is absolute: any non-owner, regardless of role, gets
// a not-found verdict identical to a truly absent contact.
func AuthorizeContact(subject Subject, ownerID int64) Verdict {
	if !subject.IsActive {
		return deny(EffectInactive, "user account is inactive")
	}
	if subject.ID != ownerID {
		return deny(EffectNotFound, "contact not found")
	}
	return allow(nil)
}
