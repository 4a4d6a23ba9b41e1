package models

import "time"

// User is a single account in the shared id space. HTTP clients register
// with an email and password; Telegram users get a row keyed by their
// telegram id. Either credential may be absent, never both.
type User struct {
	ID           int64     `json:"id"`
	Email        *string   `json:"email"`
	PasswordHash *string   `json:"-"`
	TelegramID   *int64    `json:"telegram_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
