package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tobibamidele/ibeere/config"
	"github.com/tobibamidele/ibeere/crypto"
	"github.com/tobibamidele/ibeere/errors"
)

// Context keys for storing verified claims in request context
type contextKey string

const claimsContextKey contextKey = "claims"

// Middleware handles authentication middleware. Token verification is
// stateless, no store lookup happens per request
type Middleware struct {
	config *config.Config
}

// New creates a new middleware instance
func New(config config.Config) *Middleware {
	return &Middleware{
		config: &config,
	}
}

// authenticate pulls the bearer token off the request and verifies it.
// A missing header is ErrUnauthorized, a bad token keeps its own error
// so expired and tampered tokens stay distinguishable in logs
func (m *Middleware) authenticate(r *http.Request) (*crypto.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.ErrUnauthorized
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, errors.ErrUnauthorized
	}

	claims, err := crypto.ParseAccessToken(strings.TrimSpace(parts[1]), []byte(m.config.Security.JWTSecret))
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (m *Middleware) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}

// Require is the middleware that requires a valid bearer token.
// A missing token returns 401, an expired or invalid one returns 403
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			if err == errors.ErrUnauthorized {
				m.writeError(w, http.StatusUnauthorized, err)
			} else {
				m.writeError(w, http.StatusForbidden, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole returns middleware that only lets through tokens whose role
// claim equals the given role. A token without a role claim never matches.
// Mount inside Require so the claims are already verified
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				m.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
				return
			}

			if claims.Role == "" || claims.Role != role {
				m.writeError(w, http.StatusForbidden, errors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for RequireRole with the configured admin role
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(m.config.Security.AdminRole)(next)
}

// GetClaims extracts the verified token claims from the request context
func GetClaims(r *http.Request) *crypto.Claims {
	claims, ok := r.Context().Value(claimsContextKey).(*crypto.Claims)
	if !ok {
		return nil
	}
	return claims
}
