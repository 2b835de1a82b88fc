package models

import "time"

// Question represents a quiz question. The answer index is never sent to clients
type Question struct {
	ID        string    `json:"id" db:"id"`
	Prompt    string    `json:"prompt" db:"prompt"`
	Choices   []string  `json:"choices" db:"choices"`
	Answer    int       `json:"-" db:"answer"`
	Category  *string   `json:"category,omitempty" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateQuestionRequest represents the data needed to create a question
type CreateQuestionRequest struct {
	Prompt   string   `json:"prompt"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"answer"`
	Category *string  `json:"category,omitempty"`
}

// UpdateQuestionRequest represents the data for updating a question
type UpdateQuestionRequest struct {
	Prompt   *string  `json:"prompt,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Answer   *int     `json:"answer,omitempty"`
	Category *string  `json:"category,omitempty"`
}
