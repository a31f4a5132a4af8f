package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devfolio/internal/handlers"
	"devfolio/internal/session"
)

// newTestRouter builds a router with no backing services. Routes that
// would hit storage are not exercised here; this covers the middleware
// ordering around the route tree.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	sessions := session.NewStore(nil, false, time.Minute)
	t.Cleanup(sessions.Close)

	return New(Deps{
		Sessions:      sessions,
		Public:        handlers.NewPublic(nil, nil, nil, nil, nil, nil, nil, nil),
		Admin:         handlers.NewAdmin(nil, nil, nil, nil, nil, nil),
		Auth:          handlers.NewAuth(sessions, nil),
		Media:         handlers.NewMedia(nil),
		CORSOrigins:   []string{"http://localhost:5173"},
		SecureCookies: false,
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/projects/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminWritesRequireCSRF(t *testing.T) {
	r := newTestRouter(t)

	// No CSRF header: the write is rejected before auth even runs.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/projects/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminSessionWithoutCookie(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
