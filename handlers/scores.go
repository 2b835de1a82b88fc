package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tobibamidele/ibeere/errors"
	"github.com/tobibamidele/ibeere/middleware"
	"github.com/tobibamidele/ibeere/models"
	"github.com/tobibamidele/ibeere/store"
)

// ScoresHandler grades submitted quiz answers and serves score history
type ScoresHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewScoresHandler(store store.Store, logger *slog.Logger) *ScoresHandler {
	return &ScoresHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ScoresHandler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}

func (h *ScoresHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ScoresHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("internal error", "op", op, "error", err)
	h.writeError(w, http.StatusInternalServerError, errors.ErrInternalServer)
}

// Submit grades a set of answers against the stored answer keys and
// records the resulting score for the authenticated user
func (h *ScoresHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		h.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
		return
	}

	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}
	if len(req.Answers) == 0 {
		h.writeError(w, http.StatusBadRequest, errors.NewValidationError("answers", "at least one answer is required"))
		return
	}

	points := 0
	for questionID, choice := range req.Answers {
		question, err := h.store.GetQuestionByID(r.Context(), questionID)
		if err != nil {
			if err == errors.ErrQuestionNotFound {
				h.writeError(w, http.StatusBadRequest, errors.NewValidationError("answers", "unknown question: "+questionID))
			} else {
				h.internalError(w, "get question", err)
			}
			return
		}
		if choice == question.Answer {
			points++
		}
	}

	score := &models.Score{
		ID:        uuid.New().String(),
		UserID:    claims.Subject,
		Points:    points,
		Total:     len(req.Answers),
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateScore(r.Context(), score); err != nil {
		h.internalError(w, "create score", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"score": score,
	})
}

// List returns the authenticated user's scores, newest first
func (h *ScoresHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		h.writeError(w, http.StatusUnauthorized, errors.ErrUnauthorized)
		return
	}

	scores, err := h.store.GetUserScores(r.Context(), claims.Subject)
	if err != nil {
		h.internalError(w, "get scores", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scores": scores,
	})
}
