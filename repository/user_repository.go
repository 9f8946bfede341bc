package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactManagement/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, avatar, is_active, is_email_confirmed, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Avatar,
		&u.IsActive, &u.IsEmailConfirmed, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns it with its generated ID and
// timestamps.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, hashed_password, avatar, is_active, is_email_confirmed, role)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.HashedPassword, u.Avatar, u.IsActive, u.IsEmailConfirmed, string(u.Role))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower(?)`, username)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?)`, email)
	return scanUser(row)
}

// roleOrderExpr sorts roles most privileged first for the admin listing.
const roleOrderExpr = `CASE u.role
    WHEN 'superadmin' THEN 0
    WHEN 'admin' THEN 1
    WHEN 'moderator' THEN 2
    WHEN 'user' THEN 3
    ELSE 99 END`

// List returns a page of users with their contact counts plus the total
// matching count.
//
// Visibility baked into the query:
//   - SUPERADMIN rows never appear, regardless of who asks;
//   - an ADMIN requester additionally does not see inactive admin rows.
//
// Ordering: role descending, inactive entries last within their role
// group, then username ascending (case-insensitive).
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]UserListItem, int64, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{`u.role IN ('admin', 'moderator', 'user')`}
	var args []any

	if f.RequesterRole == models.RoleAdmin {
		where = append(where, `NOT (u.role = 'admin' AND u.is_active = 0)`)
	}
	if f.Username != "" {
		where = append(where, `lower(u.username) LIKE '%' || lower(?) || '%'`)
		args = append(args, f.Username)
	}
	if f.Email != "" {
		where = append(where, `lower(u.email) LIKE '%' || lower(?) || '%'`)
		args = append(args, f.Email)
	}
	if f.Role != "" {
		where = append(where, `u.role = ?`)
		args = append(args, string(f.Role))
	}
	if f.IsActive != nil {
		where = append(where, `u.is_active = ?`)
		args = append(args, *f.IsActive)
	}
	cond := strings.Join(where, " AND ")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users u WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	query := fmt.Sprintf(
		`SELECT u.id, u.username, u.email, u.hashed_password, u.avatar, u.is_active,
                u.is_email_confirmed, u.role, u.created_at, u.updated_at,
                COUNT(c.id) AS contacts_count
         FROM users u
         LEFT JOIN contacts c ON c.user_id = u.id
         WHERE %s
         GROUP BY u.id
         ORDER BY %s, u.is_active DESC, lower(u.username)
         LIMIT ? OFFSET ?`,
		cond, roleOrderExpr)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []UserListItem
	for rows.Next() {
		var item UserListItem
		u := &item.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Avatar,
			&u.IsActive, &u.IsEmailConfirmed, &u.Role, &u.CreatedAt, &u.UpdatedAt,
			&item.ContactsCount); err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies the provided field changes and returns the updated user,
// or nil if the user does not exist.
func (r *UserRepository) Update(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	var sets []string
	var args []any

	if upd.Username != nil {
		sets = append(sets, `username = ?`)
		args = append(args, *upd.Username)
	}
	if upd.Role != nil {
		sets = append(sets, `role = ?`)
		args = append(args, string(*upd.Role))
	}
	if upd.IsActive != nil {
		sets = append(sets, `is_active = ?`)
		args = append(args, *upd.IsActive)
	}
	if upd.Avatar != nil {
		sets = append(sets, `avatar = ?`)
		args = append(args, *upd.Avatar)
	}
	if upd.HashedPassword != nil {
		sets = append(sets, `hashed_password = ?`)
		args = append(args, *upd.HashedPassword)
	}
	if upd.IsEmailConfirmed != nil {
		sets = append(sets, `is_email_confirmed = ?`)
		args = append(args, *upd.IsEmailConfirmed)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, `updated_at = CURRENT_TIMESTAMP`)
	args = append(args, id)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user and returns the deleted record, or nil if it did
// not exist. Contacts cascade via the foreign key.
func (r *UserRepository) Delete(ctx context.Context, id int64) (*models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return u, nil
}
