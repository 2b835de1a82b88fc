package models

import "time"

// Score represents the result of one graded quiz attempt
type Score struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Points    int       `json:"points" db:"points"`
	Total     int       `json:"total" db:"total"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SubmitAnswersRequest maps question IDs to the chosen answer index
type SubmitAnswersRequest struct {
	Answers map[string]int `json:"answers"`
}
