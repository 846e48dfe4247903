package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingSink captures emitted metrics for assertions.
type recordingSink struct {
	counts  []recordedMetric
	timings []recordedMetric
}

type recordedMetric struct {
	name string
	tags map[string]string
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.counts = append(s.counts, recordedMetric{name: name, tags: tags})
}

func (s *recordingSink) Gauge(string, float64, map[string]string) {}

func (s *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	s.timings = append(s.timings, recordedMetric{name: name, tags: tags})
}

// stubResolver resolves a fixed set of tokens and session IDs.
type stubResolver struct {
	byToken   map[string]*domainauth.Session
	bySession map[string]*domainauth.Session
}

func (r *stubResolver) SessionFromToken(_ context.Context, token string) (*domainauth.Session, error) {
	if s, ok := r.byToken[token]; ok {
		return s, nil
	}
	return nil, apperrors.Unauthorized("Session expired")
}

func (r *stubResolver) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if s, ok := r.bySession[id]; ok {
		return s, nil
	}
	return nil, apperrors.Unauthorized("Session expired")
}

func resolverWith(role domainauth.Role) *stubResolver {
	sess := &domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return &stubResolver{
		byToken:   map[string]*domainauth.Session{"token-sess-1": sess},
		bySession: map[string]*domainauth.Session{"sess-1": sess},
	}
}

func sessionEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetUserSessionFromContext(r.Context())
		require.True(t, ok)
		WriteJSON(w, http.StatusOK, map[string]string{"user_id": sess.UserID})
	})
}

func TestRequireAuth_BearerToken(t *testing.T) {
	handler := RequireAuth(resolverWith(domainauth.RoleStudent))(sessionEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token-sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-1")
}

func TestRequireAuth_SessionCookie(t *testing.T) {
	handler := RequireAuth(resolverWith(domainauth.RoleManager))(sessionEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	called := false
	handler := RequireAuth(resolverWith(domainauth.RoleStudent))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireRole_Hierarchy(t *testing.T) {
	tests := []struct {
		name     string
		role     domainauth.Role
		minRole  domainauth.Role
		expected int
	}{
		{"student blocked from manager route", domainauth.RoleStudent, domainauth.RoleManager, http.StatusForbidden},
		{"instructor blocked from admin route", domainauth.RoleInstructor, domainauth.RoleAdmin, http.StatusForbidden},
		{"manager passes manager route", domainauth.RoleManager, domainauth.RoleManager, http.StatusOK},
		{"admin passes manager route", domainauth.RoleAdmin, domainauth.RoleManager, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(resolverWith(tt.role), tt.minRole)(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", "Bearer token-sess-1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestOptionalAuth_GuestContinues(t *testing.T) {
	handler := OptionalAuth(resolverWith(domainauth.RoleStudent))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, IsGuestUser(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthBrowser_RedirectsToLogin(t *testing.T) {
	handler := BrowserDetection()(RequireAuthBrowser(resolverWith(domainauth.RoleManager))(sessionEcho(t)))

	req := httptest.NewRequest(http.MethodGet, "/admin/inbox?tab=unread", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2Fadmin%2Finbox%3Ftab%3Dunread", rec.Header().Get("Location"))
}

func TestRequireAuthBrowser_APIGetsJSON401(t *testing.T) {
	handler := BrowserDetection()(RequireAuthBrowser(resolverWith(domainauth.RoleManager))(sessionEcho(t)))

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRequireRoleBrowser_UnderPrivilegedLandsOnDashboard(t *testing.T) {
	handler := BrowserDetection()(RequireRoleBrowser(resolverWith(domainauth.RoleStudent), domainauth.RoleManager)(sessionEcho(t)))

	req := httptest.NewRequest(http.MethodGet, "/admin/inbox", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestRequireRoleBrowser_BearerGetsJSON403(t *testing.T) {
	handler := BrowserDetection()(RequireRoleBrowser(resolverWith(domainauth.RoleStudent), domainauth.RoleManager)(sessionEcho(t)))

	req := httptest.NewRequest(http.MethodGet, "/admin/inbox", nil)
	req.Header.Set("Authorization", "Bearer token-sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, BearerToken(req), "header %q", tt.header)
	}
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_EmitsRequestMetrics(t *testing.T) {
	sink := &recordingSink{}
	handler := Logging(discardLogger(), sink)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	mux := http.NewServeMux()
	mux.Handle("GET /api/orders/{id}", handler)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/ord-1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Len(t, sink.counts, 1)
	assert.Equal(t, "http.requests", sink.counts[0].name)
	assert.Equal(t, "/api/orders/{id}", sink.counts[0].tags["route"])
	assert.Equal(t, "418", sink.counts[0].tags["status"])
	require.Len(t, sink.timings, 1)
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/events", safeRedirectPath("/events"))
	assert.Equal(t, "/", safeRedirectPath(""))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example.com/"))
	assert.Equal(t, "/", safeRedirectPath("//evil.example.com"))
}
