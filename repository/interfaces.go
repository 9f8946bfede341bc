package repository

import (
	"context"

	"contactManagement/models"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Username      string       // case-insensitive substring
	Email         string       // case-insensitive substring
	Role          models.Role  // exact match when set
	IsActive      *bool        // exact match when set
	RequesterRole models.Role  // listing visibility depends on who asks
	Limit         int
	Offset        int
}

// UserUpdate carries optional field changes; nil fields are left untouched.
type UserUpdate struct {
	Username         *string
	Role             *models.Role
	IsActive         *bool
	Avatar           *string
	HashedPassword   *string
	IsEmailConfirmed *bool
}

// UserListItem is one row of the admin listing: a user together with the
// number of contacts it owns.
type UserListItem struct {
	User          models.User
	ContactsCount int64
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]UserListItem, int64, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

// ContactFilter narrows a contact listing; all matches are owner-scoped.
type ContactFilter struct {
	FirstName string // case-insensitive substring
	LastName  string // case-insensitive substring
	Email     string // case-insensitive substring
	Limit     int
	Offset    int
}

// ContactUpdate carries optional field changes; nil fields are left untouched.
type ContactUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Birthdate   *string
	Info        *string
}

// ContactRepositoryI defines operations on Contact entities. Every method
// is scoped by the owning user's ID.
type ContactRepositoryI interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.Contact, error)
	List(ctx context.Context, ownerID int64, f ContactFilter) ([]models.Contact, int64, error)
	Update(ctx context.Context, ownerID, id int64, upd ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, id int64) (*models.Contact, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	UpcomingBirthdays(ctx context.Context, ownerID int64, days, limit, offset int) ([]models.Contact, error)
}
