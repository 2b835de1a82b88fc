package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tobibamidele/ibeere/crypto"
	"github.com/tobibamidele/ibeere/models"
)

// seedAdmin creates an admin account directly in the store. Registration
// never hands out roles, admins are provisioned out of band
func (e *testEnv) seedAdmin(t *testing.T, username, password string) {
	t.Helper()

	hash, err := crypto.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, e.store.CreateUser(context.Background(), &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         "admin",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))
}

func (e *testEnv) questions(logger *slog.Logger) *QuestionsHandler {
	return NewQuestionsHandler(e.store, logger)
}

func TestQuestions_AdminGate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	logger := slog.New(slog.DiscardHandler)
	qh := env.questions(logger)

	env.seedAdmin(t, "root", "Adm123!x")
	env.register(t, "bob", "Abc123!x")

	adminToken := env.loginToken(t, "root", "Adm123!x")
	userToken := env.loginToken(t, "bob", "Abc123!x")

	create := env.mw.Require(env.mw.RequireAdmin(http.HandlerFunc(qh.Create)))
	body := map[string]interface{}{
		"prompt":  "What is 2+2?",
		"choices": []string{"3", "4", "5"},
		"answer":  1,
	}

	// Standard users are rejected even with a valid, unexpired token
	rec := doJSON(create, http.MethodPost, "/api/questions", userToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins get through
	rec = doJSON(create, http.MethodPost, "/api/questions", adminToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestQuestions_ListHidesAnswers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	logger := slog.New(slog.DiscardHandler)
	qh := env.questions(logger)

	require.NoError(t, env.store.CreateQuestion(context.Background(), &models.Question{
		ID:        "q1",
		Prompt:    "What is 2+2?",
		Choices:   []string{"3", "4", "5"},
		Answer:    1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	env.register(t, "bob", "Abc123!x")
	token := env.loginToken(t, "bob", "Abc123!x")

	list := env.mw.Require(http.HandlerFunc(qh.List))
	rec := doJSON(list, http.MethodGet, "/api/questions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), "What is 2+2?")
	assert.NotContains(t, rec.Body.String(), `"answer"`)
}

func TestQuestions_CreateValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	logger := slog.New(slog.DiscardHandler)
	qh := env.questions(logger)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing prompt", map[string]interface{}{"choices": []string{"a", "b"}, "answer": 0}},
		{"one choice", map[string]interface{}{"prompt": "p", "choices": []string{"a"}, "answer": 0}},
		{"answer out of range", map[string]interface{}{"prompt": "p", "choices": []string{"a", "b"}, "answer": 2}},
		{"negative answer", map[string]interface{}{"prompt": "p", "choices": []string{"a", "b"}, "answer": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(http.HandlerFunc(qh.Create), http.MethodPost, "/api/questions", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestScores_SubmitAndList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	logger := slog.New(slog.DiscardHandler)
	sh := NewScoresHandler(env.store, logger)

	ctx := context.Background()
	for i, answer := range []int{0, 1, 2} {
		require.NoError(t, env.store.CreateQuestion(ctx, &models.Question{
			ID:        []string{"q1", "q2", "q3"}[i],
			Prompt:    "prompt",
			Choices:   []string{"a", "b", "c"},
			Answer:    answer,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}))
	}

	env.register(t, "bob", "Abc123!x")
	token := env.loginToken(t, "bob", "Abc123!x")

	submit := env.mw.Require(http.HandlerFunc(sh.Submit))
	rec := doJSON(submit, http.MethodPost, "/api/scores", token, map[string]interface{}{
		"answers": map[string]int{"q1": 0, "q2": 0, "q3": 2},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Score models.Score `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Score.Points)
	assert.Equal(t, 3, resp.Score.Total)

	list := env.mw.Require(http.HandlerFunc(sh.List))
	rec = doJSON(list, http.MethodGet, "/api/scores", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"points":2`)
}

func TestScores_UnknownQuestion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	logger := slog.New(slog.DiscardHandler)
	sh := NewScoresHandler(env.store, logger)

	env.register(t, "bob", "Abc123!x")
	token := env.loginToken(t, "bob", "Abc123!x")

	submit := env.mw.Require(http.HandlerFunc(sh.Submit))
	rec := doJSON(submit, http.MethodPost, "/api/scores", token, map[string]interface{}{
		"answers": map[string]int{"ghost": 0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
