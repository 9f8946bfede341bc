package repository

import (
	"context"
	"testing"
	"time"

	"contactManagement/internal/db"
	"contactManagement/models"
)

func seedContact(t *testing.T, repo *ContactRepository, ownerID int64, first, last, birthdate string) *models.Contact {
	t.Helper()
	c, err := repo.Create(context.Background(), &models.Contact{
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
		Birthdate: birthdate,
		UserID:    ownerID,
	})
	if err != nil {
		t.Fatalf("seed contact %s: %v", first, err)
	}
	return c
}

func TestContactRepository_CRUDOwnerScoped(t *testing.T) {
	d, err := db.Open("file:contactrepo?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	users := NewUserRepository(d)
	contacts := NewContactRepository(d)
	ctx := context.Background()

	owner := seedUser(t, users, "owner", models.RoleUser, true)
	other := seedUser(t, users, "other", models.RoleUser, true)

	c := seedContact(t, contacts, owner.ID, "John", "Doe", "1990-06-15")
	if c.ID == 0 || c.UserID != owner.ID {
		t.Fatalf("unexpected created contact: %+v", c)
	}

	g, err := contacts.GetByID(ctx, owner.ID, c.ID)
	if err != nil || g == nil || g.FirstName != "John" {
		t.Fatalf("get: %v %+v", err, g)
	}

	// The same ID under a different owner behaves like a missing row.
	leak, err := contacts.GetByID(ctx, other.ID, c.ID)
	if err != nil || leak != nil {
		t.Fatalf("cross-owner get should be nil, nil: %v %+v", err, leak)
	}

	first := "Jane"
	upd, err := contacts.Update(ctx, owner.ID, c.ID, ContactUpdate{FirstName: &first})
	if err != nil || upd == nil || upd.FirstName != "Jane" {
		t.Fatalf("update: %v %+v", err, upd)
	}
	if upd.LastName != "Doe" {
		t.Fatalf("untouched field changed: %+v", upd)
	}

	crossUpd, err := contacts.Update(ctx, other.ID, c.ID, ContactUpdate{FirstName: &first})
	if err != nil || crossUpd != nil {
		t.Fatalf("cross-owner update should be nil, nil: %v %+v", err, crossUpd)
	}

	crossDel, err := contacts.Delete(ctx, other.ID, c.ID)
	if err != nil || crossDel != nil {
		t.Fatalf("cross-owner delete should be nil, nil: %v %+v", err, crossDel)
	}

	deleted, err := contacts.Delete(ctx, owner.ID, c.ID)
	if err != nil || deleted == nil || deleted.ID != c.ID {
		t.Fatalf("delete: %v %+v", err, deleted)
	}
	gone, err := contacts.GetByID(ctx, owner.ID, c.ID)
	if err != nil || gone != nil {
		t.Fatalf("contact should be gone: %v %+v", err, gone)
	}
}

func TestContactRepository_ListAndCount(t *testing.T) {
	d, err := db.Open("file:contactlist?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	users := NewUserRepository(d)
	contacts := NewContactRepository(d)
	ctx := context.Background()

	owner := seedUser(t, users, "owner", models.RoleUser, true)
	other := seedUser(t, users, "other", models.RoleUser, true)

	seedContact(t, contacts, owner.ID, "Anna", "Young", "1990-01-01")
	seedContact(t, contacts, owner.ID, "bob", "adams", "1990-01-01")
	seedContact(t, contacts, owner.ID, "Carl", "Brown", "1990-01-01")
	seedContact(t, contacts, other.ID, "Eve", "Other", "1990-01-01")

	items, total, err := contacts.List(ctx, owner.ID, ContactFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d len=%d, want 3/3", total, len(items))
	}
	// Case-insensitive last-name order.
	if items[0].LastName != "adams" || items[1].LastName != "Brown" || items[2].LastName != "Young" {
		t.Fatalf("unexpected order: %s %s %s", items[0].LastName, items[1].LastName, items[2].LastName)
	}
	for _, it := range items {
		if it.UserID != owner.ID {
			t.Fatalf("foreign contact in listing: %+v", it)
		}
	}

	_, total, err = contacts.List(ctx, owner.ID, ContactFilter{FirstName: "AN"})
	if err != nil || total != 1 {
		t.Fatalf("filtered list: %v total=%d", err, total)
	}

	n, err := contacts.CountByOwner(ctx, owner.ID)
	if err != nil || n != 3 {
		t.Fatalf("count owner: %v %d", err, n)
	}
	n, err = contacts.CountByOwner(ctx, other.ID)
	if err != nil || n != 1 {
		t.Fatalf("count other: %v %d", err, n)
	}
	n, err = contacts.CountByOwner(ctx, 9999)
	if err != nil || n != 0 {
		t.Fatalf("count missing owner: %v %d", err, n)
	}
}

func TestContactRepository_UpcomingBirthdays(t *testing.T) {
	d, err := db.Open("file:contactbday?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	users := NewUserRepository(d)
	contacts := NewContactRepository(d)
	ctx := context.Background()

	owner := seedUser(t, users, "owner", models.RoleUser, true)
	other := seedUser(t, users, "other", models.RoleUser, true)

	now := time.Now()
	md := func(offsetDays int) string {
		return now.AddDate(-30, 0, offsetDays).Format("2006-01-02")
	}

	today := seedContact(t, contacts, owner.ID, "Today", "T", md(0))
	soon := seedContact(t, contacts, owner.ID, "Soon", "S", md(3))
	seedContact(t, contacts, owner.ID, "Late", "L", md(30))
	seedContact(t, contacts, other.ID, "Foreign", "F", md(1))

	got, err := contacts.UpcomingBirthdays(ctx, owner.ID, 7, 50, 0)
	if err != nil {
		t.Fatalf("birthdays: %v", err)
	}
	ids := map[int64]bool{}
	for _, c := range got {
		ids[c.ID] = true
		if c.UserID != owner.ID {
			t.Fatalf("foreign contact in birthday window: %+v", c)
		}
	}
	if !ids[today.ID] || !ids[soon.ID] {
		t.Fatalf("expected today+soon in window, got %v", ids)
	}
	if len(got) != 2 {
		t.Fatalf("window size = %d, want 2", len(got))
	}
}
