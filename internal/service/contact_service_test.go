package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactManagement/internal/testutil"
	"contactManagement/models"
	"contactManagement/repository"
)

func validInput() ContactInput {
	return ContactInput{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@example.com",
		PhoneNumber: "+1234567",
		Birthdate:   "1990-06-15",
		Info:        "friend",
	}
}

func TestContactCreateValidation(t *testing.T) {
	f := newFixture(t, "contact_validate")
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.userRepo, "owner", models.RoleUser, true)
	sub := asSubject(owner)

	var verr *ValidationError

	in := validInput()
	in.FirstName, in.LastName = "", ""
	_, err := f.contacts.Create(ctx, sub, in)
	assert.ErrorAs(t, err, &verr)

	in = validInput()
	in.Birthdate = "15.06.1990"
	_, err = f.contacts.Create(ctx, sub, in)
	assert.ErrorAs(t, err, &verr)

	in = validInput()
	in.Birthdate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	_, err = f.contacts.Create(ctx, sub, in)
	assert.ErrorAs(t, err, &verr)

	// Only one name is fine.
	in = validInput()
	in.LastName = ""
	created, err := f.contacts.Create(ctx, sub, in)
	require.NoError(t, err)
	assert.Equal(t, "John", created.FirstName)
	assert.Equal(t, owner.ID, created.UserID)
}

func TestContactCRUDThroughService(t *testing.T) {
	f := newFixture(t, "contact_crud")
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.userRepo, "owner", models.RoleUser, true)
	stranger := testutil.SeedUser(t, f.userRepo, "stranger", models.RoleAdmin, true)
	sub := asSubject(owner)

	created, err := f.contacts.Create(ctx, sub, validInput())
	require.NoError(t, err)

	got, err := f.contacts.Get(ctx, sub, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doe", got.LastName)

	// Someone else's contact reads as missing even for an admin.
	_, err = f.contacts.Get(ctx, asSubject(stranger), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	first := "Jane"
	patched, err := f.contacts.UpdatePartial(ctx, sub, created.ID, ContactPatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Jane", patched.FirstName)
	assert.Equal(t, "Doe", patched.LastName)

	// Clearing both names via patch is rejected.
	empty := ""
	var verr *ValidationError
	_, err = f.contacts.UpdatePartial(ctx, sub, created.ID, ContactPatch{FirstName: &empty, LastName: &empty})
	assert.ErrorAs(t, err, &verr)

	_, err = f.contacts.UpdatePartial(ctx, sub, created.ID, ContactPatch{})
	assert.ErrorAs(t, err, &verr)

	in := validInput()
	in.FirstName = "Replaced"
	over, err := f.contacts.Overwrite(ctx, sub, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", over.FirstName)

	deleted, err := f.contacts.Delete(ctx, sub, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	_, err = f.contacts.Get(ctx, sub, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.contacts.Delete(ctx, sub, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactInactiveSubjectDenied(t *testing.T) {
	f := newFixture(t, "contact_inactive")
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.userRepo, "owner", models.RoleUser, false)
	sub := asSubject(owner)

	_, err := f.contacts.Create(ctx, sub, validInput())
	assert.ErrorIs(t, err, ErrInactive)
	_, _, err = f.contacts.List(ctx, sub, repository.ContactFilter{})
	assert.ErrorIs(t, err, ErrInactive)
	_, err = f.contacts.Count(ctx, sub)
	assert.ErrorIs(t, err, ErrInactive)
}

// A count read immediately after a mutation reflects the new value: the
// mutation evicts the cached entry, so the next read recomputes instead
// of serving the stale count for a full TTL.
func TestCountInvalidatedOnMutation(t *testing.T) {
	f := newFixture(t, "contact_invalidate")
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.userRepo, "owner", models.RoleUser, true)
	sub := asSubject(owner)
	key := fmt.Sprintf("user:%d:contacts-count", owner.ID)

	n, err := f.contacts.Count(ctx, sub)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, f.redis.Exists(key), "count read populates the cache")

	created, err := f.contacts.Create(ctx, sub, validInput())
	require.NoError(t, err)
	assert.False(t, f.redis.Exists(key), "create evicts the cached count")

	n, err = f.contacts.Count(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Overwrite does not change the count and leaves the cache warm.
	in := validInput()
	in.FirstName = "Other"
	_, err = f.contacts.Overwrite(ctx, sub, created.ID, in)
	require.NoError(t, err)
	assert.True(t, f.redis.Exists(key))

	_, err = f.contacts.Delete(ctx, sub, created.ID)
	require.NoError(t, err)
	assert.False(t, f.redis.Exists(key), "delete evicts the cached count")

	n, err = f.contacts.Count(ctx, sub)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpcomingBirthdaysThroughService(t *testing.T) {
	f := newFixture(t, "contact_bday")
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.userRepo, "owner", models.RoleUser, true)
	sub := asSubject(owner)

	in := validInput()
	in.Birthdate = time.Now().AddDate(-25, 0, 2).Format("2006-01-02")
	_, err := f.contacts.Create(ctx, sub, in)
	require.NoError(t, err)

	got, err := f.contacts.UpcomingBirthdays(ctx, sub, 7, 50, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
