package store

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Chat struct {
	ID        string    `json:"id"` // Using UUID for external ID
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID      string `json:"id"` // Using UUID for external ID
	ChatID  string `json:"chat_id"`
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
	// Intent and Language are recorded on user turns only; they describe
	// how the paired assistant turn was produced.
	Intent    string    `json:"intent,omitempty"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
