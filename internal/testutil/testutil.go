package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"contactManagement/internal/auth"
	"contactManagement/internal/cache"
	"contactManagement/internal/db"
	"contactManagement/models"
	"contactManagement/repository"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// Caller is responsible for closing the DB, typically via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// We use a shared cache memory database so that multiple connections share the same DB if needed.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// NewRedisStore starts a miniredis instance and returns a cache store
// backed by it, together with the miniredis handle for TTL manipulation.
func NewRedisStore(t *testing.T) (cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisStore(client), mr
}

// AccessToken returns a signed access token for the given user ID.
func AccessToken(t *testing.T, secret string, userID int64) string {
	t.Helper()
	token, err := auth.IssueAccessToken(secret, userID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// SeedUser inserts a user with the given role and activity flag and
// returns the stored record.
func SeedUser(t *testing.T, repo repository.UserRepositoryI, username string, role models.Role, active bool) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword("password-" + username)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := repo.Create(context.Background(), &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hashed,
		IsActive:       active,
		Role:           role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// SeedContact inserts a contact owned by the given user.
func SeedContact(t *testing.T, repo repository.ContactRepositoryI, ownerID int64, firstName, lastName string) *models.Contact {
	t.Helper()
	c, err := repo.Create(context.Background(), &models.Contact{
		FirstName: firstName,
		LastName:  lastName,
		Email:     firstName + "." + lastName + "@example.com",
		Birthdate: "1990-06-15",
		UserID:    ownerID,
	})
	if err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return c
}
