package service

import (
	"context"
	"errors"

	"github.com/cidade-conectada/reports-api/internal/core"
	"github.com/cidade-conectada/reports-api/internal/data"
	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	apperrors "github.com/cidade-conectada/reports-api/internal/errors"
	"github.com/cidade-conectada/reports-api/internal/ports"
)

// RoleResolverOptions groups dependencies for RoleResolver.
type RoleResolverOptions struct {
	Sessions ports.SessionValidator
	Profiles core.ProfileRepository
}

// RoleResolver answers "what role does this caller hold right now". It
// re-validates the session and reads the role from the profile store on every
// call; the role snapshot carried by the session is never consulted.
type RoleResolver struct {
	sessions ports.SessionValidator
	profiles core.ProfileRepository
}

// NewRoleResolver constructs a new RoleResolver.
func NewRoleResolver(opts RoleResolverOptions) *RoleResolver {
	return &RoleResolver{sessions: opts.Sessions, profiles: opts.Profiles}
}

// ResolvedCaller is the outcome of a successful resolution: a live session
// plus the authoritative role from the profile store.
type ResolvedCaller struct {
	Session domainauth.Session
	Role    domainauth.Role
}

// Resolve validates the session and returns the caller with their current
// role. A user seen for the first time gets a profile with the default role;
// the creation is race-safe, so concurrent first requests all observe the
// same stored row.
func (r *RoleResolver) Resolve(ctx context.Context, sessionID string) (*ResolvedCaller, error) {
	session, err := r.sessions.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	profile, err := r.profiles.GetByUserID(ctx, session.UserID)
	if err != nil {
		if !isProfileMissing(err) {
			return nil, apperrors.Unavailable("profile store unavailable", err)
		}
		profile, err = r.profiles.EnsureExists(ctx, session.UserID)
		if err != nil {
			return nil, apperrors.Unavailable("profile store unavailable", err)
		}
	}

	return &ResolvedCaller{
		Session: session,
		Role:    domainauth.NormalizeRole(profile.Role),
	}, nil
}

// isProfileMissing distinguishes a missing row from an outage. The repository
// reports absence either via its sentinel or via a mapped not-found AppError.
func isProfileMissing(err error) bool {
	return apperrors.IsNotFound(err) || errors.Is(err, data.ErrProfileNotFound)
}
