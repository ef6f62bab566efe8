package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// NormalizeRole canonicalizes a role value for comparison and persistence.
// Upstream role values may arrive with inconsistent casing or surrounding
// whitespace, so every comparison goes through this first.
func NormalizeRole(r Role) Role {
	return Role(strings.ToLower(strings.TrimSpace(string(r))))
}

// ParseRole normalizes s and returns the matching Role.
// Unknown values map to RoleGuest, never to a privileged role.
func ParseRole(s string) Role {
	switch NormalizeRole(Role(s)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	default:
		return RoleGuest
	}
}

// Satisfies reports whether a user holding r may perform an action that
// requires the given role. Admin requirements use strict equality on the
// normalized value; lower requirements follow the Guest < User < Admin
// hierarchy.
func (r Role) Satisfies(required Role) bool {
	have := NormalizeRole(r)
	want := NormalizeRole(required)
	if want == RoleAdmin {
		return have == RoleAdmin
	}
	hierarchy := map[Role]int{
		RoleGuest: 0,
		RoleUser:  1,
		RoleAdmin: 2,
	}
	haveLevel, haveKnown := hierarchy[have]
	wantLevel, wantKnown := hierarchy[want]
	if !haveKnown || !wantKnown {
		return false
	}
	return haveLevel >= wantLevel
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., samAccountName or sub)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
//
// Role here is a snapshot taken at login and is display-only. Privileged
// operations never read it; they re-resolve the live role from the profile
// store on every call.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return NormalizeRole(s.Role) == RoleGuest }
