package models

import "time"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  *int64          `json:"category_id"`
	Merchant    *string         `json:"merchant"`
	Description *string         `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseWithCategory is a transaction row joined with its category name,
// used by listing and anomaly queries.
type ExpenseWithCategory struct {
	Transaction
	CategoryName *string `json:"category_name"`
}

// CategoryTotal is one bucket of a spending-by-category aggregate.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DailyFlow is one day of the income/expense trend series.
type DailyFlow struct {
	Date    time.Time `json:"date"`
	Income  float64   `json:"income"`
	Expense float64   `json:"expense"`
}
