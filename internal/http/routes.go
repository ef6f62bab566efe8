package httpx

import (
	"log/slog"
	"net/http"

	"github.com/cidade-conectada/reports-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Reports      *service.ReportService
	Auth         *service.AuthService
	Gate         *service.AccessGate
	CookieDomain string
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	reportHandlers := &ReportHandlers{Svc: services.Reports}
	var authHandlers *AuthHandlers
	if services.Auth != nil {
		authHandlers = &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: services.Logger}
	}

	guards := routeGuards{
		Gate:         services.Gate,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	if services.Auth != nil {
		guards.Sessions = services.Auth
	}
	registerReportRoutes(mux, reportHandlers, guards)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if authHandlers != nil {
		registerAuthRoutes(mux, authHandlers)
	}

	return mux
}

// routeGuards holds the middleware dependencies for protected routes.
type routeGuards struct {
	Gate         *service.AccessGate
	Sessions     SessionRevoker
	CookieDomain string
	Logger       *slog.Logger
}

// authWrap returns a no-op wrapper when the gate is nil, otherwise requires
// any live session.
func (g routeGuards) authWrap() func(http.Handler) http.Handler {
	if g.Gate == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuth(g.Gate)
}

// adminWrap returns a no-op wrapper when the gate is nil, otherwise requires
// the admin role and signs out denied callers.
func (g routeGuards) adminWrap() func(http.Handler) http.Handler {
	if g.Gate == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAdmin(AdminGateOptions{
		Gate:         g.Gate,
		Sessions:     g.Sessions,
		CookieDomain: g.CookieDomain,
		Logger:       g.Logger,
	})
}

func registerReportRoutes(mux *http.ServeMux, h *ReportHandlers, guards routeGuards) {
	wrap := guards.authWrap()
	wrapAdmin := guards.adminWrap()

	mux.Handle("POST /api/reports", wrap(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/reports", wrap(http.HandlerFunc(h.List)))

	// Status transitions and totals are operator-only
	mux.Handle("POST /api/reports/{id}/advance", wrapAdmin(http.HandlerFunc(h.Advance)))
	mux.Handle("GET /api/reports/stats", wrapAdmin(http.HandlerFunc(h.Stats)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}
