package models

import "time"

// Bill is a one-off or recurring payable. Recurring bills carry an RFC 5545
// RRULE anchored at DueDate; NextDue is computed at read time and never
// stored.
type Bill struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	Amount         float64    `json:"amount"`
	DueDate        time.Time  `json:"due_date"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurrenceRule *string    `json:"recurrence_rule,omitempty"`
	Paid           bool       `json:"paid"`
	NextDue        *time.Time `json:"next_due,omitempty"`
}
