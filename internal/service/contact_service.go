package service

import (
	"context"
	"strings"
	"time"

	"contactManagement/internal/cache"
	"contactManagement/internal/logger"
	"contactManagement/internal/policy"
	"contactManagement/models"
	"contactManagement/repository"
)

const birthdateLayout = "2006-01-02"

// ContactInput carries the full field set for create and overwrite.
type ContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Birthdate   string
	Info        string
}

// ContactPatch carries optional field changes for a partial update.
type ContactPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Birthdate   *string
	Info        *string
}

// ContactService handles contact CRUD for the owning subject. Ownership
// is enforced twice: the policy engine's contact rule and owner-scoped
// repository queries. Mutations that change the count report to the
// invalidation coordinator after the write is durable.
type ContactService struct {
	repo        repository.ContactRepositoryI
	counts      *cache.ContactsCounts
	invalidator *cache.Invalidator
	log         *logger.Logger
}

func NewContactService(repo repository.ContactRepositoryI, counts *cache.ContactsCounts, invalidator *cache.Invalidator, log *logger.Logger) *ContactService {
	return &ContactService{
		repo:        repo,
		counts:      counts,
		invalidator: invalidator,
		log:         log.With("service", "contact"),
	}
}

func validateNames(firstName, lastName string) error {
	if firstName == "" && lastName == "" {
		return validationErr("name", "at least first_name or last_name must be provided")
	}
	return nil
}

func validateBirthdate(birthdate string) error {
	d, err := time.Parse(birthdateLayout, birthdate)
	if err != nil {
		return validationErr("birthdate", "birthdate must be in YYYY-MM-DD format")
	}
	if d.After(time.Now()) {
		return validationErr("birthdate", "birthdate cannot be in the future")
	}
	return nil
}

// Create adds a contact owned by the subject and evicts the subject's
// cached contact count.
func (s *ContactService) Create(ctx context.Context, subject policy.Subject, in ContactInput) (*models.Contact, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, verdictError(v)
	}

	in = normalizeInput(in)
	if err := validateNames(in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	if err := validateBirthdate(in.Birthdate); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Contact{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Birthdate:   in.Birthdate,
		Info:        in.Info,
		UserID:      subject.ID,
	})
	if err != nil {
		return nil, err
	}

	// Eviction happens only after the insert is durable; a racing
	// read-through repopulating before this point would have cached the
	// pre-mutation count for a full TTL.
	s.invalidator.OnContactMutated(ctx, subject.ID)

	s.log.Debug("contact created", "owner_id", subject.ID, "contact_id", created.ID)
	return created, nil
}

// List returns a page of the subject's own contacts.
func (s *ContactService) List(ctx context.Context, subject policy.Subject, f repository.ContactFilter) ([]models.Contact, int64, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, 0, verdictError(v)
	}
	return s.repo.List(ctx, subject.ID, f)
}

// Get returns one contact if the subject owns it; any other contact,
// existing or not, is reported as not found.
func (s *ContactService) Get(ctx context.Context, subject policy.Subject, contactID int64) (*models.Contact, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, verdictError(v)
	}
	c, err := s.repo.GetByID(ctx, subject.ID, contactID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Overwrite replaces all fields of the subject's contact. The count does
// not change, so no cache eviction happens.
func (s *ContactService) Overwrite(ctx context.Context, subject policy.Subject, contactID int64, in ContactInput) (*models.Contact, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, verdictError(v)
	}

	in = normalizeInput(in)
	if err := validateNames(in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	if err := validateBirthdate(in.Birthdate); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, subject.ID, contactID, repository.ContactUpdate{
		FirstName:   &in.FirstName,
		LastName:    &in.LastName,
		Email:       &in.Email,
		PhoneNumber: &in.PhoneNumber,
		Birthdate:   &in.Birthdate,
		Info:        &in.Info,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.log.Debug("contact overwritten", "owner_id", subject.ID, "contact_id", contactID)
	return updated, nil
}

// UpdatePartial changes only the provided fields of the subject's
// contact. The resulting record must still carry at least one name.
func (s *ContactService) UpdatePartial(ctx context.Context, subject policy.Subject, contactID int64, patch ContactPatch) (*models.Contact, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, verdictError(v)
	}
	if patch.FirstName == nil && patch.LastName == nil && patch.Email == nil &&
		patch.PhoneNumber == nil && patch.Birthdate == nil && patch.Info == nil {
		return nil, validationErr("fields", "at least one field must be provided for update")
	}
	if patch.Birthdate != nil {
		if err := validateBirthdate(strings.TrimSpace(*patch.Birthdate)); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.GetByID(ctx, subject.ID, contactID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	upd := repository.ContactUpdate{
		FirstName:   trimmed(patch.FirstName),
		LastName:    trimmed(patch.LastName),
		Email:       trimmed(patch.Email),
		PhoneNumber: trimmed(patch.PhoneNumber),
		Birthdate:   trimmed(patch.Birthdate),
		Info:        trimmed(patch.Info),
	}

	newFirst := existing.FirstName
	if upd.FirstName != nil {
		newFirst = *upd.FirstName
	}
	newLast := existing.LastName
	if upd.LastName != nil {
		newLast = *upd.LastName
	}
	if err := validateNames(newFirst, newLast); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, subject.ID, contactID, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.log.Debug("contact updated", "owner_id", subject.ID, "contact_id", contactID)
	return updated, nil
}

// Delete removes the subject's contact and evicts the subject's cached
// contact count.
func (s *ContactService) Delete(ctx context.Context, subject policy.Subject, contactID int64) (*models.Contact, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, verdictError(v)
	}

	deleted, err := s.repo.Delete(ctx, subject.ID, contactID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrNotFound
	}

	s.invalidator.OnContactMutated(ctx, subject.ID)

	s.log.Debug("contact deleted", "owner_id", subject.ID, "contact_id", contactID)
	return deleted, nil
}

// Count returns the subject's contact count through the read-through
// cache; with the cache store degraded it still returns the correct
// authoritative value.
func (s *ContactService) Count(ctx context.Context, subject policy.Subject) (int64, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return 0, verdictError(v)
	}
	return s.counts.Get(ctx, subject.ID)
}

// UpcomingBirthdays lists the subject's contacts with a birthday in the
// next `days` days.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, subject policy.Subject, days, limit, offset int) ([]models.Contact, error) {
	if v := policy.AuthorizeContact(subject, subject.ID); !v.Allowed() {
		return nil, verdictError(v)
	}
	return s.repo.UpcomingBirthdays(ctx, subject.ID, days, limit, offset)
}

func normalizeInput(in ContactInput) ContactInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Birthdate = strings.TrimSpace(in.Birthdate)
	in.Info = strings.TrimSpace(in.Info)
	return in
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
