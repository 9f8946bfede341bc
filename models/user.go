package models

// User represents a registered account.
// It maps to the `users` table in SQLite.
type User struct {
	ID               int64  `db:"id" json:"id"`
	Username         string `db:"username" json:"username"`
	Email            string `db:"email" json:"email"`
	HashedPassword   string `db:"hashed_password" json:"-"`
	Avatar           string `db:"avatar" json:"avatar,omitempty"`
	IsActive         bool   `db:"is_active" json:"is_active"`
	IsEmailConfirmed bool   `db:"is_email_confirmed" json:"is_email_confirmed"`
	Role             Role   `db:"role" json:"role"`
	CreatedAt        string `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt        string `db:"updated_at" json:"updated_at,omitempty"`
}

// UserWithStats is a user row paired with its contact count, as returned
// by the admin listing. ContactsCount is nil when the requester is not
// entitled to see it.
type UserWithStats struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	Avatar           string `json:"avatar,omitempty"`
	IsEmailConfirmed *bool  `json:"is_email_confirmed,omitempty"`
	IsActive         *bool  `json:"is_active,omitempty"`
	ContactsCount    *int64 `json:"contacts_count,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}
