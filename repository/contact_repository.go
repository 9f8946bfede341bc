package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"contactManagement/models"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone_number, birthdate, info, user_id, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Birthdate, &c.Info, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contact for its owner and returns it with the
// generated ID and timestamps.
func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, phone_number, birthdate, info, user_id)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthdate, c.Info, c.UserID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, c.UserID, id)
}

// GetByID returns a contact only if it belongs to ownerID; otherwise nil.
func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND user_id = ?`, id, ownerID)
	return scanContact(row)
}

// List returns a page of the owner's contacts plus the total matching
// count, ordered by last name, first name, then ID.
func (r *ContactRepository) List(ctx context.Context, ownerID int64, f ContactFilter) ([]models.Contact, int64, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{`user_id = ?`}
	args := []any{ownerID}

	if f.FirstName != "" {
		where = append(where, `lower(first_name) LIKE '%' || lower(?) || '%'`)
		args = append(args, f.FirstName)
	}
	if f.LastName != "" {
		where = append(where, `lower(last_name) LIKE '%' || lower(?) || '%'`)
		args = append(args, f.LastName)
	}
	if f.Email != "" {
		where = append(where, `lower(email) LIKE '%' || lower(?) || '%'`)
		args = append(args, f.Email)
	}
	cond := strings.Join(where, " AND ")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE `+cond+`
         ORDER BY lower(last_name), lower(first_name), id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
			&c.Birthdate, &c.Info, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies the provided field changes to the owner's contact and
// returns the updated record, or nil if no such contact exists for the
// owner.
func (r *ContactRepository) Update(ctx context.Context, ownerID, id int64, upd ContactUpdate) (*models.Contact, error) {
	var sets []string
	var args []any

	if upd.FirstName != nil {
		sets = append(sets, `first_name = ?`)
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, `last_name = ?`)
		args = append(args, *upd.LastName)
	}
	if upd.Email != nil {
		sets = append(sets, `email = ?`)
		args = append(args, *upd.Email)
	}
	if upd.PhoneNumber != nil {
		sets = append(sets, `phone_number = ?`)
		args = append(args, *upd.PhoneNumber)
	}
	if upd.Birthdate != nil {
		sets = append(sets, `birthdate = ?`)
		args = append(args, *upd.Birthdate)
	}
	if upd.Info != nil {
		sets = append(sets, `info = ?`)
		args = append(args, *upd.Info)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}
	sets = append(sets, `updated_at = CURRENT_TIMESTAMP`)
	args = append(args, id, ownerID)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, ownerID, id)
}

// Delete removes the owner's contact and returns the deleted record, or
// nil if it did not exist for the owner.
func (r *ContactRepository) Delete(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	c, err := r.GetByID(ctx, ownerID, id)
	if err != nil || c == nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ? AND user_id = ?`, id, ownerID); err != nil {
		return nil, err
	}
	return c, nil
}

// CountByOwner returns the authoritative number of contacts owned by
// ownerID. This is the counting capability behind the contacts-count
// cache.
func (r *ContactRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts WHERE user_id = ?`, ownerID).Scan(&n)
	return n, err
}

// UpcomingBirthdays returns the owner's contacts whose birthday (by month
// and day) falls within the next `days` days, including today. The window
// may wrap across the end of the year.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, ownerID int64, days, limit, offset int) ([]models.Contact, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Compare month-day slices; the BETWEEN flips to an OR when the
	// window crosses December 31.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts
         WHERE user_id = ?
           AND (
             (strftime('%m-%d', 'now') <= strftime('%m-%d', 'now', ?)
              AND strftime('%m-%d', birthdate) BETWEEN strftime('%m-%d', 'now') AND strftime('%m-%d', 'now', ?))
             OR
             (strftime('%m-%d', 'now') > strftime('%m-%d', 'now', ?)
              AND (strftime('%m-%d', birthdate) >= strftime('%m-%d', 'now')
                   OR strftime('%m-%d', birthdate) <= strftime('%m-%d', 'now', ?)))
           )
         ORDER BY strftime('%m-%d', birthdate), id
         LIMIT ? OFFSET ?`,
		ownerID, plusDays(days), plusDays(days), plusDays(days), plusDays(days), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
			&c.Birthdate, &c.Info, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func plusDays(days int) string {
	return "+" + strconv.Itoa(days) + " days"
}
