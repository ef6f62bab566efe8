package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/domain/model"
	"github.com/cidade-conectada/reports-api/internal/mocks"
	"github.com/cidade-conectada/reports-api/internal/ports"
	"github.com/cidade-conectada/reports-api/internal/service"
)

// memSessionStore is a minimal in-memory SessionStore for tests.
type memSessionStore struct{ m map[string]domainauth.Session }

func (s *memSessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if s.m == nil {
		s.m = map[string]domainauth.Session{}
	}
	s.m[sess.ID] = sess
	return nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := s.m[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}
func (s *memSessionStore) Delete(_ context.Context, id string) error { delete(s.m, id); return nil }

// routerFixture wires a complete router around in-memory sessions and mocked
// repositories.
type routerFixture struct {
	handler  http.Handler
	store    *memSessionStore
	profiles *mocks.MockProfileRepository
	reports  *mocks.MockReportRepository
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := &memSessionStore{m: map[string]domainauth.Session{}}
	authSvc := service.NewAuthService(service.AuthServiceOptions{Sessions: ports.SessionStore(store)})

	profiles := mocks.NewMockProfileRepository(ctrl)
	reports := mocks.NewMockReportRepository(ctrl)

	resolver := service.NewRoleResolver(service.RoleResolverOptions{Sessions: authSvc, Profiles: profiles})
	gate := service.NewAccessGate(service.AccessGateOptions{Roles: resolver})
	reportSvc := service.NewReportService(service.ReportServiceOptions{Reports: reports})

	handler := NewRouter(RouterServices{
		Reports: reportSvc,
		Auth:    authSvc,
		Gate:    gate,
	})

	return &routerFixture{handler: handler, store: store, profiles: profiles, reports: reports}
}

func (f *routerFixture) addSession(id, userID string) {
	_ = f.store.Save(context.Background(), domainauth.Session{
		ID:        id,
		UserID:    userID,
		Email:     userID + "@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func (f *routerFixture) stubRole(userID string, role domainauth.Role) {
	f.profiles.EXPECT().GetByUserID(gomock.Any(), userID).Return(
		&model.Profile{UserID: userID, Role: role}, nil).AnyTimes()
}

func TestRouter_ReportRoutes(t *testing.T) {
	fx := newRouterFixture(t)
	fx.addSession("citizen-sess", "citizen-1")
	fx.stubRole("citizen-1", domainauth.RoleUser)
	fx.reports.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.Report{}, nil).AnyTimes()

	t.Run("unauthenticated -> 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
		fx.handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user session -> 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "citizen-sess"})
		fx.handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		_, hasReports := resp["reports"]
		assert.True(t, hasReports)
	})

	t.Run("healthz is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		fx.handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRouter_AdminRouteSignsOutNonAdmin(t *testing.T) {
	fx := newRouterFixture(t)
	fx.addSession("citizen-sess", "citizen-1")
	fx.stubRole("citizen-1", domainauth.RoleUser)
	fx.reports.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.Report{}, nil).AnyTimes()

	// A non-admin hitting an admin operation is rejected and signed out
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/reports/report-1/advance", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "citizen-sess"})
	fx.handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The server-side session is gone, so the next request starts unauthenticated
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "citizen-sess"})
	fx.handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminRouteAllowsAdmin(t *testing.T) {
	fx := newRouterFixture(t)
	fx.addSession("admin-sess", "admin-1")
	fx.stubRole("admin-1", domainauth.RoleAdmin)
	fx.reports.EXPECT().GetByID(gomock.Any(), "report-1").Return(
		&model.Report{ID: "report-1", Status: model.ReportStatusPending}, nil)
	fx.reports.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(
		&model.Report{ID: "report-1", Status: model.ReportStatusResolved}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/reports/report-1/advance", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "admin-sess"})
	fx.handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.ReportStatusResolved, got.Status)
}
