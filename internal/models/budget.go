package models

// Budget caps a category's spending for one month. Month is "YYYY-MM".
type Budget struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	CategoryID   *int64  `json:"category_id"`
	MonthlyLimit float64 `json:"monthly_limit"`
	Month        string  `json:"month"`
}

// BudgetWithCategory is a budget row joined with its category name.
type BudgetWithCategory struct {
	Budget
	CategoryName *string `json:"category_name"`
}
