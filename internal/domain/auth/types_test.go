package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole(" Admin "))
	assert.Equal(t, RoleAdmin, NormalizeRole("ADMIN"))
	assert.Equal(t, RoleUser, NormalizeRole("user"))
	assert.Equal(t, Role(""), NormalizeRole("   "))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole("  ADMIN\t"))
	assert.Equal(t, RoleUser, ParseRole("User"))
	assert.Equal(t, RoleGuest, ParseRole("guest"))
	assert.Equal(t, RoleGuest, ParseRole(""))
	assert.Equal(t, RoleGuest, ParseRole("superuser"))
}

func TestRole_Satisfies_AdminRequiresStrictEquality(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleAdmin))
	assert.True(t, Role(" Admin ").Satisfies(RoleAdmin))
	assert.False(t, RoleUser.Satisfies(RoleAdmin))
	assert.False(t, RoleGuest.Satisfies(RoleAdmin))
	assert.False(t, Role("administrator").Satisfies(RoleAdmin))
}

func TestRole_Satisfies_Hierarchy(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleUser))
	assert.True(t, RoleUser.Satisfies(RoleUser))
	assert.True(t, RoleUser.Satisfies(RoleGuest))
	assert.False(t, RoleGuest.Satisfies(RoleUser))
	assert.False(t, Role("unknown").Satisfies(RoleUser))
}

func TestSession_IsGuest(t *testing.T) {
	s := Session{ID: "s1", UserID: "u1", Role: RoleGuest, ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, s.IsGuest())

	s.Role = " GUEST "
	assert.True(t, s.IsGuest())

	s.Role = RoleUser
	assert.False(t, s.IsGuest())
}
