package model

import (
	"time"

	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
)

// Profile is the authorization record mapping a user identity to a role.
// At most one Profile exists per user_id; the profile store is the single
// source of truth for authorization decisions.
type Profile struct {
	UserID    string          `json:"user_id"    db:"user_id"`
	Role      domainauth.Role `json:"role"       db:"role"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
