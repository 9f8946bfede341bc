package policy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"contactManagement/models"
)

func TestLessUsersOrdering(t *testing.T) {
	users := []models.User{
		{ID: 1, Username: "zoe", Role: models.RoleUser, IsActive: true},
		{ID: 2, Username: "Bob", Role: models.RoleAdmin, IsActive: false},
		{ID: 3, Username: "amy", Role: models.RoleAdmin, IsActive: true},
		{ID: 4, Username: "carl", Role: models.RoleModerator, IsActive: true},
		{ID: 5, Username: "Al", Role: models.RoleUser, IsActive: true},
		{ID: 6, Username: "root", Role: models.RoleSuperadmin, IsActive: true},
	}

	sort.Slice(users, func(i, j int) bool { return LessUsers(&users[i], &users[j]) })

	got := make([]int64, len(users))
	for i := range users {
		got[i] = users[i].ID
	}
	// superadmin, active admin, inactive admin, moderator, then users by
	// case-insensitive name.
	assert.Equal(t, []int64{6, 3, 2, 4, 5, 1}, got)
}

func TestLessUsersIDTiebreak(t *testing.T) {
	a := models.User{ID: 1, Username: "same", Role: models.RoleUser, IsActive: true}
	b := models.User{ID: 2, Username: "SAME", Role: models.RoleUser, IsActive: true}
	assert.True(t, LessUsers(&a, &b))
	assert.False(t, LessUsers(&b, &a))
}
