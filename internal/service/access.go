package service

import (
	"context"

	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	apperrors "github.com/cidade-conectada/reports-api/internal/errors"
)

// AccessGateOptions groups dependencies for AccessGate.
type AccessGateOptions struct {
	Roles *RoleResolver
}

// AccessGate is the single authorization choke point. Every privileged
// operation goes through Authorize; no handler or service compares roles
// on its own.
type AccessGate struct {
	roles *RoleResolver
}

// NewAccessGate constructs a new AccessGate.
func NewAccessGate(opts AccessGateOptions) *AccessGate {
	return &AccessGate{roles: opts.Roles}
}

// Authorize resolves the caller and checks their current role against the
// requirement. It returns the resolved caller on success so downstream code
// does not resolve twice. Failures are exactly one of: unauthenticated
// (dead session), forbidden (live session, insufficient role), or
// unavailable (role could not be determined).
func (g *AccessGate) Authorize(
	ctx context.Context,
	sessionID string,
	required domainauth.Role,
) (*ResolvedCaller, error) {
	caller, err := g.roles.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !caller.Role.Satisfies(domainauth.NormalizeRole(required)) {
		return nil, apperrors.Forbidden("insufficient role for this operation")
	}
	return caller, nil
}
