package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tobibamidele/ibeere/errors"
	"github.com/tobibamidele/ibeere/models"
	"github.com/tobibamidele/ibeere/store"
	"github.com/tobibamidele/ibeere/validator"
)

// QuestionsHandler handles question CRUD. Reads need authentication,
// writes go through the admin gate
type QuestionsHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewQuestionsHandler(store store.Store, logger *slog.Logger) *QuestionsHandler {
	return &QuestionsHandler{
		store:  store,
		logger: logger,
	}
}

func (h *QuestionsHandler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}

func (h *QuestionsHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *QuestionsHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("internal error", "op", op, "error", err)
	h.writeError(w, http.StatusInternalServerError, errors.ErrInternalServer)
}

// List returns all questions. Answers are stripped by the model's JSON tags
func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	questions, err := h.store.ListQuestions(r.Context())
	if err != nil {
		h.internalError(w, "list questions", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
	})
}

// Create adds a new question (admin only)
func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	var req models.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	if err := validator.ValidateRequired("prompt", req.Prompt); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Choices) < 2 {
		h.writeError(w, http.StatusBadRequest, errors.NewValidationError("choices", "at least two choices are required"))
		return
	}
	if req.Answer < 0 || req.Answer >= len(req.Choices) {
		h.writeError(w, http.StatusBadRequest, errors.NewValidationError("answer", "answer must index one of the choices"))
		return
	}

	question := &models.Question{
		ID:        uuid.New().String(),
		Prompt:    req.Prompt,
		Choices:   req.Choices,
		Answer:    req.Answer,
		Category:  req.Category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.store.CreateQuestion(r.Context(), question); err != nil {
		h.internalError(w, "create question", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"question": question,
	})
}

// Update modifies an existing question (admin only)
func (h *QuestionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	question, err := h.store.GetQuestionByID(r.Context(), id)
	if err != nil {
		if err == errors.ErrQuestionNotFound {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.internalError(w, "get question", err)
		}
		return
	}

	var req models.UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	if req.Prompt != nil {
		question.Prompt = *req.Prompt
	}
	if req.Choices != nil {
		question.Choices = req.Choices
	}
	if req.Answer != nil {
		question.Answer = *req.Answer
	}
	if req.Category != nil {
		question.Category = req.Category
	}

	if len(question.Choices) < 2 {
		h.writeError(w, http.StatusBadRequest, errors.NewValidationError("choices", "at least two choices are required"))
		return
	}
	if question.Answer < 0 || question.Answer >= len(question.Choices) {
		h.writeError(w, http.StatusBadRequest, errors.NewValidationError("answer", "answer must index one of the choices"))
		return
	}

	if err := h.store.UpdateQuestion(r.Context(), question); err != nil {
		if err == errors.ErrQuestionNotFound {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.internalError(w, "update question", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"question": question,
	})
}

// Delete removes a question (admin only)
func (h *QuestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		h.writeError(w, http.StatusMethodNotAllowed, errors.ErrInvalidInput)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput)
		return
	}

	if err := h.store.DeleteQuestion(r.Context(), id); err != nil {
		if err == errors.ErrQuestionNotFound {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.internalError(w, "delete question", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "question deleted",
	})
}
