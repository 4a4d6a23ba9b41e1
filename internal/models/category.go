package models

// Category is an income or expense bucket. A nil UserID marks a shared
// category visible to every user.
type Category struct {
	ID     int64           `json:"id"`
	UserID *int64          `json:"user_id"`
	Name   string          `json:"name"`
	Type   TransactionType `json:"type"`
}
