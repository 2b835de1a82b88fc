package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobibamidele/ibeere/config"
	"github.com/tobibamidele/ibeere/crypto"
)

const testSecret = "test-secret"

func testMiddleware(t *testing.T) *Middleware {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Security.JWTSecret = testSecret
	return New(*cfg)
}

func token(t *testing.T, role string, validity time.Duration) string {
	t.Helper()
	tok, err := crypto.GenerateAccessToken("user-1", "bob", role, []byte(testSecret), validity)
	require.NoError(t, err)
	return tok
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequire_MissingToken(t *testing.T) {
	t.Parallel()

	m := testMiddleware(t)
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	m.Require(okHandler(&hit)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, hit)
}

func TestRequire_MalformedHeader(t *testing.T) {
	t.Parallel()

	m := testMiddleware(t)

	tests := []struct {
		name   string
		header string
	}{
		{"not bearer", "Basic abc123"},
		{"bearer without token", "Bearer "},
		{"bare token", token(t, "", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit bool
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			m.Require(okHandler(&hit)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, hit)
		})
	}
}

func TestRequire_InvalidAndExpiredTokens(t *testing.T) {
	t.Parallel()

	m := testMiddleware(t)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"expired", token(t, "", -time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit bool
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			m.Require(okHandler(&hit)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.False(t, hit)
		})
	}
}

func TestRequire_ValidToken(t *testing.T) {
	t.Parallel()

	m := testMiddleware(t)

	var claims *crypto.Claims
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetClaims(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "admin", time.Hour))
	rec := httptest.NewRecorder()
	m.Require(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	m := testMiddleware(t)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin role", "admin", http.StatusOK},
		{"other role", "editor", http.StatusForbidden},
		{"no role", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit bool
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, tt.role, time.Hour))
			rec := httptest.NewRecorder()
			m.Require(m.RequireAdmin(okHandler(&hit))).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, hit)
		})
	}
}

func TestRequireAdmin_WithoutRequire(t *testing.T) {
	t.Parallel()

	m := testMiddleware(t)
	var hit bool

	// No Require in front, so no claims in context
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	rec := httptest.NewRecorder()
	m.RequireAdmin(okHandler(&hit)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, hit)
}
