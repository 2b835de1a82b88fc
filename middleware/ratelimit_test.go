package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 2, time.Hour)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	// Burst exhausted
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other addresses are unaffected
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_Limit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Hour)

	var hit int
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "1.2.3.4:5678"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Equal(t, 1, hit)
}
