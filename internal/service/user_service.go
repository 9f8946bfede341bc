// Package service implements the business logic on top of the policy
// engine, the repositories, and the contacts-count cache.
package service

import (
	"context"
	"fmt"
	"strings"

	"contactManagement/internal/auth"
	"contactManagement/internal/avatar"
	"contactManagement/internal/cache"
	"contactManagement/internal/logger"
	"contactManagement/internal/policy"
	"contactManagement/models"
	"contactManagement/repository"
)

// AdminUserUpdate is the set of changes an admin surface PATCH may carry.
// ResetAvatar true means "drop the custom avatar and fall back to the
// derived default"; setting an arbitrary avatar value is not supported
// on this surface.
type AdminUserUpdate struct {
	Username    *string
	Role        *string
	IsActive    *bool
	ResetAvatar bool
}

// UserService handles account management. All admin-surface operations
// are gated by the policy engine before any write happens.
type UserService struct {
	users       repository.UserRepositoryI
	counts      *cache.ContactsCounts
	invalidator *cache.Invalidator
	log         *logger.Logger
}

func NewUserService(users repository.UserRepositoryI, counts *cache.ContactsCounts, invalidator *cache.Invalidator, log *logger.Logger) *UserService {
	return &UserService{
		users:       users,
		counts:      counts,
		invalidator: invalidator,
		log:         log.With("service", "user"),
	}
}

// Register creates a regular active USER account (public signup).
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createUser(ctx, nil, username, email, password, models.RoleUser, true)
}

// CreateByAdmin creates an account on behalf of an admin or superadmin.
// Role assignment is policy-gated: superadmin creation is denied for
// everyone.
func (s *UserService) CreateByAdmin(ctx context.Context, subject policy.Subject, username, email, password, roleStr string, isActive *bool) (*models.User, error) {
	role := models.RoleUser
	if roleStr != "" {
		parsed, err := models.ParseRole(roleStr)
		if err != nil {
			return nil, validationErr("role", "invalid role: "+roleStr)
		}
		role = parsed
	}

	if v := policy.AuthorizeUserCreate(subject, role); !v.Allowed() {
		s.log.Warn("user creation denied", "subject_id", subject.ID, "role", roleStr, "reason", v.Reason)
		return nil, verdictError(v)
	}

	active := true
	if isActive != nil {
		active = *isActive
	}
	return s.createUser(ctx, &subject, username, email, password, role, active)
}

func (s *UserService) createUser(ctx context.Context, creator *policy.Subject, username, email, password string, role models.Role, active bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		return nil, validationErr("username", "username can't be empty")
	}
	if email == "" {
		return nil, validationErr("email", "email can't be empty")
	}
	if password == "" {
		return nil, validationErr("password", "password can't be empty")
	}

	fields := map[string]string{}
	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		fields["username"] = "username is already taken"
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		fields["email"] = "user with such email is already registered"
	}
	if len(fields) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrConflict, fields)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		Avatar:         avatar.Resolve(email),
		IsActive:       active,
		Role:           role,
	})
	if err != nil {
		return nil, err
	}

	if creator != nil {
		s.log.Info("user created by admin", "creator_id", creator.ID, "user_id", created.ID, "role", string(created.Role))
	} else {
		s.log.Info("user registered", "user_id", created.ID)
	}
	return created, nil
}

// List returns a page of users visible to the subject, each row redacted
// according to the pairwise (subject role, row role) profile. Mixed
// visibility within one page is expected: an admin sees full data for
// USER and MODERATOR rows and redacted data for peer ADMIN rows.
func (s *UserService) List(ctx context.Context, subject policy.Subject, f repository.UserFilter) ([]models.UserWithStats, int64, error) {
	if v := s.gateAdminSurface(subject); !v.Allowed() {
		return nil, 0, verdictError(v)
	}

	f.RequesterRole = subject.Role
	items, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.UserWithStats, 0, len(items))
	for i := range items {
		u := &items[i].User
		row := statsRow(u, items[i].ContactsCount)
		policy.RedactUserStats(&row, policy.UserRedaction(subject, u.Role, u.ID))
		out = append(out, row)
	}
	return out, total, nil
}

// GetForAdmin returns one user with its contact count, policy-gated and
// redacted. The count is served through the read-through cache; a
// degraded cache store changes latency, never the response shape.
func (s *UserService) GetForAdmin(ctx context.Context, subject policy.Subject, userID int64) (*models.UserWithStats, error) {
	if v := s.gateAdminSurface(subject); !v.Allowed() {
		return nil, verdictError(v)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	v := policy.AuthorizeUser(subject, u, policy.OpRead)
	if !v.Allowed() {
		return nil, verdictError(v)
	}

	var count int64
	if !v.Redact.Hides(policy.FieldContactsCount) {
		if count, err = s.counts.Get(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	row := statsRow(u, count)
	policy.RedactUserStats(&row, v.Redact)
	return &row, nil
}

// UpdateByAdmin applies an admin-surface update to another user. Field
// rules on top of the target verdict: only superadmins change usernames
// or roles.
func (s *UserService) UpdateByAdmin(ctx context.Context, subject policy.Subject, targetID int64, upd AdminUserUpdate) (*models.User, error) {
	if v := s.gateAdminSurface(subject); !v.Allowed() {
		return nil, verdictError(v)
	}
	if upd.Username == nil && upd.Role == nil && upd.IsActive == nil && !upd.ResetAvatar {
		return nil, validationErr("fields", "no fields provided to update")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	if v := policy.AuthorizeUser(subject, target, policy.OpUpdate); !v.Allowed() {
		s.log.Warn("user update denied", "subject_id", subject.ID, "target_id", targetID, "reason", v.Reason)
		return nil, verdictError(v)
	}

	var repoUpd repository.UserUpdate

	if upd.Username != nil && *upd.Username != target.Username {
		if subject.Role != models.RoleSuperadmin {
			return nil, verdictError(policy.Verdict{Effect: policy.EffectForbidden, Reason: "only superadmin can change usernames"})
		}
		repoUpd.Username = upd.Username
	}
	if upd.Role != nil {
		newRole, err := models.ParseRole(*upd.Role)
		if err != nil {
			return nil, validationErr("role", "invalid role: "+*upd.Role)
		}
		if newRole != target.Role {
			if subject.Role != models.RoleSuperadmin {
				return nil, verdictError(policy.Verdict{Effect: policy.EffectForbidden, Reason: "only superadmin can change user roles"})
			}
			if newRole == models.RoleSuperadmin {
				return nil, verdictError(policy.Verdict{Effect: policy.EffectForbidden, Reason: "promoting to superadmin is restricted"})
			}
			repoUpd.Role = &newRole
		}
	}
	if upd.IsActive != nil && *upd.IsActive != target.IsActive {
		repoUpd.IsActive = upd.IsActive
	}
	if upd.ResetAvatar {
		def := avatar.Resolve(target.Email)
		if target.Avatar != def {
			repoUpd.Avatar = &def
		}
	}

	updated, err := s.users.Update(ctx, targetID, repoUpd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.log.Info("user updated by admin", "subject_id", subject.ID, "target_id", targetID)
	return updated, nil
}

// DeleteByAdmin removes a user. The target's contacts cascade with it,
// so the target's cached contact count is evicted as well.
func (s *UserService) DeleteByAdmin(ctx context.Context, subject policy.Subject, targetID int64) (*models.User, error) {
	if v := s.gateAdminSurface(subject); !v.Allowed() {
		return nil, verdictError(v)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	if v := policy.AuthorizeUser(subject, target, policy.OpDelete); !v.Allowed() {
		s.log.Warn("user deletion denied", "subject_id", subject.ID, "target_id", targetID, "reason", v.Reason)
		return nil, verdictError(v)
	}

	deleted, err := s.users.Delete(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrNotFound
	}

	s.invalidator.OnContactMutated(ctx, targetID)
	s.log.Info("user deleted by admin", "subject_id", subject.ID, "target_id", targetID, "target_role", string(deleted.Role))
	return deleted, nil
}

// ValidateCredentials checks a username/password pair and returns the
// matching user.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.VerifyPassword(password, u.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ChangePassword updates the subject's own password after verifying the
// current one.
func (s *UserService) ChangePassword(ctx context.Context, subject policy.Subject, oldPassword, newPassword string) error {
	if !subject.IsActive {
		return ErrInactive
	}
	if oldPassword == "" {
		return validationErr("old_password", "old password is required to change password")
	}
	if newPassword == "" {
		return validationErr("new_password", "new password can't be empty")
	}
	if newPassword == oldPassword {
		return validationErr("new_password", "new password can't be the same as the old one")
	}

	u, err := s.users.GetByID(ctx, subject.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if !auth.VerifyPassword(oldPassword, u.HashedPassword) {
		s.log.Warn("old password verification failed", "user_id", subject.ID)
		return ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, subject.ID, repository.UserUpdate{HashedPassword: &hashed}); err != nil {
		return err
	}
	s.log.Debug("user changed password", "user_id", subject.ID)
	return nil
}

// GetByID returns a user by ID (used by the auth middleware to resolve
// the token subject).
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// gateAdminSurface rejects subjects that have no access to the user
// administration surface at all, before any target is fetched.
func (s *UserService) gateAdminSurface(subject policy.Subject) policy.Verdict {
	if !subject.IsActive {
		return policy.Verdict{Effect: policy.EffectInactive, Reason: "user account is inactive"}
	}
	if subject.Role != models.RoleAdmin && subject.Role != models.RoleSuperadmin {
		return policy.Verdict{Effect: policy.EffectForbidden, Reason: string(subject.Role) + " has no access to user administration"}
	}
	return policy.Verdict{Effect: policy.EffectAllow}
}

func statsRow(u *models.User, count int64) models.UserWithStats {
	isActive := u.IsActive
	confirmed := u.IsEmailConfirmed
	c := count
	return models.UserWithStats{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		Avatar:           u.Avatar,
		IsEmailConfirmed: &confirmed,
		IsActive:         &isActive,
		ContactsCount:    &c,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
