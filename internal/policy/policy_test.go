package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contactManagement/models"
)

func subject(id int64, role models.Role) Subject {
	return Subject{ID: id, Role: role, IsActive: true}
}

func user(id int64, role models.Role) *models.User {
	return &models.User{ID: id, Role: role, IsActive: true}
}

func TestAuthorizeUserInactiveSubjectDeniedFirst(t *testing.T) {
	// The inactive check precedes every role rule, including for
	// superadmins and including self-reads.
	roles := []models.Role{models.RoleUser, models.RoleModerator, models.RoleAdmin, models.RoleSuperadmin}
	for _, role := range roles {
		sub := Subject{ID: 1, Role: role, IsActive: false}
		for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
			v := AuthorizeUser(sub, user(2, models.RoleUser), op)
			assert.Equal(t, EffectInactive, v.Effect, "role %s op %d", role, op)
		}
		v := AuthorizeUser(sub, user(1, role), OpRead)
		assert.Equal(t, EffectInactive, v.Effect, "self-read for inactive %s", role)
	}
}

func TestAuthorizeUserSuperadminTargetInvisible(t *testing.T) {
	target := user(99, models.RoleSuperadmin)

	for _, role := range []models.Role{models.RoleUser, models.RoleModerator, models.RoleAdmin} {
		for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
			v := AuthorizeUser(subject(1, role), target, op)
			assert.Equal(t, EffectNotFound, v.Effect, "role %s op %d", role, op)
		}
	}

	// Another superadmin also cannot see a superadmin peer.
	v := AuthorizeUser(subject(1, models.RoleSuperadmin), target, OpRead)
	assert.Equal(t, EffectNotFound, v.Effect)
}

func TestAuthorizeUserSuperadminSelf(t *testing.T) {
	self := user(99, models.RoleSuperadmin)
	sub := subject(99, models.RoleSuperadmin)

	v := AuthorizeUser(sub, self, OpRead)
	assert.Equal(t, EffectAllow, v.Effect)
	assert.Nil(t, v.Redact)

	for _, op := range []Operation{OpUpdate, OpDelete} {
		v := AuthorizeUser(sub, self, op)
		assert.Equal(t, EffectForbidden, v.Effect, "op %d", op)
	}
}

func TestAuthorizeUserLowRolesForbidden(t *testing.T) {
	for _, role := range []models.Role{models.RoleUser, models.RoleModerator} {
		for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
			v := AuthorizeUser(subject(1, role), user(2, models.RoleUser), op)
			assert.Equal(t, EffectForbidden, v.Effect, "role %s op %d", role, op)
		}
	}
}

func TestAuthorizeUserAdminOnLowerRoles(t *testing.T) {
	sub := subject(1, models.RoleAdmin)
	for _, targetRole := range []models.Role{models.RoleUser, models.RoleModerator} {
		for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
			v := AuthorizeUser(sub, user(2, targetRole), op)
			assert.Equal(t, EffectAllow, v.Effect, "target %s op %d", targetRole, op)
			assert.Nil(t, v.Redact)
		}
	}
}

func TestAuthorizeUserAdminOnPeerAdmin(t *testing.T) {
	sub := subject(1, models.RoleAdmin)
	peer := user(2, models.RoleAdmin)

	v := AuthorizeUser(sub, peer, OpRead)
	assert.Equal(t, EffectAllow, v.Effect)
	assert.True(t, v.Redact.Hides(FieldContactsCount))
	assert.True(t, v.Redact.Hides(FieldIsActive))
	assert.True(t, v.Redact.Hides(FieldIsEmailConfirmed))

	for _, op := range []Operation{OpUpdate, OpDelete} {
		v := AuthorizeUser(sub, peer, op)
		assert.Equal(t, EffectForbidden, v.Effect, "op %d", op)
	}
}

func TestAuthorizeUserAdminSelf(t *testing.T) {
	sub := subject(1, models.RoleAdmin)
	self := user(1, models.RoleAdmin)

	v := AuthorizeUser(sub, self, OpRead)
	assert.Equal(t, EffectAllow, v.Effect)
	assert.Nil(t, v.Redact, "self-read is never redacted")

	for _, op := range []Operation{OpUpdate, OpDelete} {
		v := AuthorizeUser(sub, self, op)
		assert.Equal(t, EffectForbidden, v.Effect, "op %d", op)
	}
}

func TestAuthorizeUserSuperadminFullAccess(t *testing.T) {
	sub := subject(1, models.RoleSuperadmin)
	for _, targetRole := range []models.Role{models.RoleUser, models.RoleModerator, models.RoleAdmin} {
		for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
			v := AuthorizeUser(sub, user(2, targetRole), op)
			assert.Equal(t, EffectAllow, v.Effect, "target %s op %d", targetRole, op)
			assert.Nil(t, v.Redact)
		}
	}
}

func TestAuthorizeUserCreate(t *testing.T) {
	tests := []struct {
		name        string
		subjectRole models.Role
		newRole     models.Role
		want        Effect
	}{
		{"user cannot create", models.RoleUser, models.RoleUser, EffectForbidden},
		{"moderator cannot create", models.RoleModerator, models.RoleUser, EffectForbidden},
		{"admin creates user", models.RoleAdmin, models.RoleUser, EffectAllow},
		{"admin creates moderator", models.RoleAdmin, models.RoleModerator, EffectAllow},
		{"admin creates admin", models.RoleAdmin, models.RoleAdmin, EffectAllow},
		{"admin cannot create superadmin", models.RoleAdmin, models.RoleSuperadmin, EffectForbidden},
		{"superadmin creates admin", models.RoleSuperadmin, models.RoleAdmin, EffectAllow},
		{"superadmin cannot create superadmin", models.RoleSuperadmin, models.RoleSuperadmin, EffectForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := AuthorizeUserCreate(subject(1, tt.subjectRole), tt.newRole)
			assert.Equal(t, tt.want, v.Effect)
		})
	}

	v := AuthorizeUserCreate(Subject{ID: 1, Role: models.RoleAdmin, IsActive: false}, models.RoleUser)
	assert.Equal(t, EffectInactive, v.Effect)
}

func TestAuthorizeContactOwnerOnly(t *testing.T) {
	// Ownership is absolute: even a superadmin acting on someone else's
	// contact gets the same not-found as for a contact that does not exist.
	for _, role := range []models.Role{models.RoleUser, models.RoleModerator, models.RoleAdmin, models.RoleSuperadmin} {
		v := AuthorizeContact(subject(1, role), 2)
		assert.Equal(t, EffectNotFound, v.Effect, "role %s", role)

		v = AuthorizeContact(subject(1, role), 1)
		assert.Equal(t, EffectAllow, v.Effect, "role %s owner", role)
	}

	v := AuthorizeContact(Subject{ID: 1, Role: models.RoleUser, IsActive: false}, 1)
	assert.Equal(t, EffectInactive, v.Effect)
}

func TestAuthorizeDeterministic(t *testing.T) {
	sub := subject(1, models.RoleAdmin)
	target := user(2, models.RoleAdmin)
	first := AuthorizeUser(sub, target, OpRead)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AuthorizeUser(sub, target, OpRead))
	}
}
