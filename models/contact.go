package models

// Contact represents a single contact entry owned by exactly one user.
// Birthdate uses the SQLite date format (YYYY-MM-DD).
type Contact struct {
	ID          int64  `db:"id" json:"id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Email       string `db:"email" json:"email"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
	Birthdate   string `db:"birthdate" json:"birthdate"`
	Info        string `db:"info" json:"info,omitempty"`
	UserID      int64  `db:"user_id" json:"user_id"`
	CreatedAt   string `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}
