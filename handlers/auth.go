package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tobibamidele/ibeere/config"
	"github.com/tobibamidele/ibeere/crypto"
	"github.com/tobibamidele/ibeere/errors"
	"github.com/tobibamidele/ibeere/middleware"
	"github.com/tobibamidele/ibeere/models"
	"github.com/tobibamidele/ibeere/store"
	"github.com/tobibamidele/ibeere/validator"
)

// AuthHandler handles auth related HTTP requests
type AuthHandler struct {
	store             store.Store
	config            *config.Config
	passwordValidator *validator.PasswordValidator
	logger            *slog.Logger
}

func NewAuthHandler(store store.Store, cfg *config.Config, pwValidator *validator.PasswordValidator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:             store,
		config:            cfg,
		passwordValidator: pwValidator,
		logger:            logger,
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}

func (h *AuthHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// internalError logs the real cause and returns an opaque 500 to the client
func (h *AuthHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("internal error", "op", op, "error", err)
	h.writeError(w, http.StatusInternalServerError, errors.ErrInternalServer)
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	// Validate
	if err := validator.ValidateUsername(req.Username); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := validator.ValidateRequired("password", req.Password); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	// No history yet at registration, the policy only sees the candidate itself
	if err := h.passwordValidator.Validate(req.Password, req.Username, nil); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	hash, err := crypto.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		h.internalError(w, "hash password", err)
		return
	}

	// Create user
	user := &models.User{
		ID:                  uuid.New().String(),
		Username:            req.Username,
		PasswordHash:        hash,
		FailedLoginAttempts: 0,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if err == errors.ErrUserAlreadyExists {
			h.writeError(w, http.StatusConflict, err)
		} else {
			h.internalError(w, "create user", err)
		}
		return
	}

	// Seed the history so the first password change can't reuse the original
	if h.config.PasswordPolicy.PreventReuse > 0 {
		if err := h.store.AddPasswordHistory(r.Context(), user.ID, hash); err != nil {
			h.logger.Error("failed to add password history", "user_id", user.ID, "error", err)
		}
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user": user.ToResponse(),
	})
}

// Login handles user login and issues a bearer token on success
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	if err := validator.ValidateRequired("username", req.Username); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := validator.ValidateRequired("password", req.Password); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if err == errors.ErrUserNotFound {
			// Unknown identity looks the same as a wrong password
			h.writeError(w, http.StatusUnauthorized, errors.ErrInvalidCredentials)
		} else {
			h.internalError(w, "get user", err)
		}
		return
	}

	maxAttempts := h.config.Security.MaxLoginAttempts
	window := h.config.Security.LockoutDuration

	// Locked accounts are rejected before any password comparison
	if user.IsLocked(maxAttempts, window) {
		h.writeError(w, http.StatusForbidden, errors.NewLockoutError(user.LockoutRemaining(window)))
		return
	}

	// A lockout whose window has passed reopens the account for this very
	// request, the counter restarts from zero if the password fails again
	if user.LockoutExpired(maxAttempts, window) {
		if err := h.store.ResetFailedLogins(r.Context(), user.ID); err != nil {
			h.internalError(w, "reset failed logins", err)
			return
		}
		user.FailedLoginAttempts = 0
		user.LastFailedAt = nil
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		if err := h.store.IncrementFailedLogins(r.Context(), user.ID, time.Now()); err != nil {
			h.logger.Error("failed to increment failed logins", "user_id", user.ID, "error", err)
		}
		h.writeError(w, http.StatusUnauthorized, errors.ErrInvalidCredentials)
		return
	}

	// Successful verification always returns the account to its open state
	if user.FailedLoginAttempts > 0 {
		if err := h.store.ResetFailedLogins(r.Context(), user.ID); err != nil {
			h.logger.Error("failed to reset failed logins", "user_id", user.ID, "error", err)
		}
	}

	token, err := crypto.GenerateAccessToken(
		user.ID, user.Username, user.Role,
		[]byte(h.config.Security.JWTSecret), h.config.Security.TokenValidity,
	)
	if err != nil {
		h.internalError(w, "generate token", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_in": int(h.config.Security.TokenValidity.Seconds()),
		"user":       user.ToResponse(),
	})
}

// Me returns the account behind the presented token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		h.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		if err == errors.ErrUserNotFound {
			// Valid token for an account that no longer exists
			h.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
		} else {
			h.internalError(w, "get user", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user.ToResponse(),
	})
}

// ChangePassword rotates the password for the authenticated account.
// The new password is validated against the full stored history
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		h.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	if err := validator.ValidateRequired("password", req.Password); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		if err == errors.ErrUserNotFound {
			h.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
		} else {
			h.internalError(w, "get user", err)
		}
		return
	}

	// Current hash plus the stored history, capped at the reuse window
	hashes := []string{user.PasswordHash}
	if h.config.PasswordPolicy.PreventReuse > 0 {
		entries, err := h.store.GetPasswordHistory(r.Context(), user.ID, h.config.PasswordPolicy.PreventReuse)
		if err != nil {
			h.internalError(w, "get password history", err)
			return
		}
		for _, entry := range entries {
			hashes = append(hashes, entry.PasswordHash)
		}
	}

	if err := h.passwordValidator.Validate(req.Password, user.Username, hashes); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	newHash, err := crypto.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		h.internalError(w, "hash password", err)
		return
	}

	if err := h.store.UpdatePassword(r.Context(), user.ID, newHash); err != nil {
		h.internalError(w, "update password", err)
		return
	}

	if h.config.PasswordPolicy.PreventReuse > 0 {
		if err := h.store.AddPasswordHistory(r.Context(), user.ID, newHash); err != nil {
			h.logger.Error("failed to add password history", "user_id", user.ID, "error", err)
		}
		if err := h.store.DeleteOldPasswordHistory(r.Context(), user.ID, h.config.PasswordPolicy.PreventReuse); err != nil {
			h.logger.Error("failed to trim password history", "user_id", user.ID, "error", err)
		}
	}

	// Changing the password also clears any failure streak
	if err := h.store.ResetFailedLogins(r.Context(), user.ID); err != nil {
		h.logger.Error("failed to reset failed logins", "user_id", user.ID, "error", err)
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "password changed",
	})
}
