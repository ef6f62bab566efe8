package httpx

import (
	"context"

	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/service"
)

// callerKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type callerKey struct{}

// withCaller returns a child context that carries the resolved caller.
// If caller is nil, the original ctx is returned unchanged.
func withCaller(ctx context.Context, caller *service.ResolvedCaller) context.Context {
	if caller == nil {
		return ctx
	}
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the resolved caller from context and a boolean
// indicating presence. The caller is placed there by the auth middleware after
// the session was validated and the role resolved from the profile store.
func CallerFromContext(ctx context.Context) (*service.ResolvedCaller, bool) {
	if caller, ok := ctx.Value(callerKey{}).(*service.ResolvedCaller); ok && caller != nil {
		return caller, true
	}
	return nil, false
}

// SessionFromContext returns the session of the resolved caller, or nil when
// the request is unauthenticated.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	if caller, ok := CallerFromContext(ctx); ok {
		return &caller.Session
	}
	return nil
}

// IsGuestUser reports whether the current request context is unauthenticated.
func IsGuestUser(ctx context.Context) bool {
	_, ok := CallerFromContext(ctx)
	return !ok
}
