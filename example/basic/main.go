package main

import (
	"log"
	"net/http"

	"github.com/tobibamidele/ibeere"
	"github.com/tobibamidele/ibeere/config"
)

func main() {
	// Configuration comes from the environment, falling back to defaults.
	// IBEERE_JWT_SECRET is required
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize Ibeere
	app, err := ibeere.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize:", err)
	}
	defer app.Close()

	require := app.Require()
	admin := app.RequireAdmin()

	// Create router
	mux := http.NewServeMux()

	// Public routes - no authentication required
	mux.Handle("POST /api/auth/register", app.RegisterHandler())
	mux.Handle("POST /api/auth/login", app.LoginHandler())

	// Protected routes - a valid bearer token is required
	mux.Handle("GET /api/auth/me", require(app.MeHandler()))
	mux.Handle("POST /api/auth/password", require(app.ChangePasswordHandler()))

	mux.Handle("GET /api/questions", require(app.ListQuestionsHandler()))
	mux.Handle("POST /api/scores", require(app.SubmitScoreHandler()))
	mux.Handle("GET /api/scores", require(app.ListScoresHandler()))

	// Privileged routes - the token's role claim must be admin
	mux.Handle("POST /api/questions", require(admin(app.CreateQuestionHandler())))
	mux.Handle("PUT /api/questions/{id}", require(admin(app.UpdateQuestionHandler())))
	mux.Handle("DELETE /api/questions/{id}", require(admin(app.DeleteQuestionHandler())))

	// Start server
	log.Println("Server starting on :8080")
	log.Fatal(http.ListenAndServe(":8080", mux))
}
