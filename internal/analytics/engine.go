// Package analytics aggregates and classifies a user's financial records:
// per-category spending totals, budget utilization, and anomalous expenses.
// It reads through narrow store interfaces and never writes.
package analytics

import (
	"context"
	"math"

	"paisatrack/internal/models"
)

// Budget utilization thresholds.
const (
	utilizationRed    = 0.90
	utilizationYellow = 0.70
)

// anomalyFactor flags expenses at or above this multiple of their category's
// mean amount.
const anomalyFactor = 2.0

type TransactionStore interface {
	SpendingByCategory(ctx context.Context, userID int64, month string) ([]models.CategoryTotal, error)
	SpentByCategory(ctx context.Context, userID int64, month string) (map[int64]float64, error)
	ExpenseMeansByCategory(ctx context.Context, userID int64) (map[int64]float64, error)
	ListExpenses(ctx context.Context, userID int64) ([]models.ExpenseWithCategory, error)
	TotalByType(ctx context.Context, userID int64, txType models.TransactionType, month string) (float64, error)
	DailyTrend(ctx context.Context, userID int64, month string) ([]models.DailyFlow, error)
}

type BudgetStore interface {
	ListForMonth(ctx context.Context, userID int64, month string) ([]models.BudgetWithCategory, error)
}

type Engine struct {
	transactions TransactionStore
	budgets      BudgetStore
}

func NewEngine(transactions TransactionStore, budgets BudgetStore) *Engine {
	return &Engine{transactions: transactions, budgets: budgets}
}

// SpendingReport lists a month's expense totals per category, descending.
type SpendingReport struct {
	Month      string                 `json:"month"`
	Categories []models.CategoryTotal `json:"categories"`
}

func (e *Engine) SpendingByCategory(ctx context.Context, userID int64, month string) (*SpendingReport, error) {
	totals, err := e.transactions.SpendingByCategory(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	for i := range totals {
		totals[i].Total = round2(totals[i].Total)
	}
	return &SpendingReport{Month: month, Categories: totals}, nil
}

// BudgetStatusItem carries one budget with its spend, utilization ratio and
// traffic-light status for the month.
type BudgetStatusItem struct {
	models.BudgetWithCategory
	Spent       float64 `json:"spent"`
	Utilization float64 `json:"utilization"`
	Status      string  `json:"status"`
}

type BudgetReport struct {
	Month string             `json:"month"`
	Items []BudgetStatusItem `json:"items"`
}

// BudgetStatus classifies each of the month's budgets: red at ≥ 90%
// utilization, yellow at ≥ 70%, green below. A non-positive limit counts as
// zero utilization, and months without transactions spend zero.
func (e *Engine) BudgetStatus(ctx context.Context, userID int64, month string) (*BudgetReport, error) {
	budgets, err := e.budgets.ListForMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	spentByCategory, err := e.transactions.SpentByCategory(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	items := make([]BudgetStatusItem, 0, len(budgets))
	for _, b := range budgets {
		var key int64
		if b.CategoryID != nil {
			key = *b.CategoryID
		}
		spent := spentByCategory[key]

		var utilization float64
		if b.MonthlyLimit > 0 {
			utilization = spent / b.MonthlyLimit
		}

		status := "green"
		switch {
		case utilization >= utilizationRed:
			status = "red"
		case utilization >= utilizationYellow:
			status = "yellow"
		}

		items = append(items, BudgetStatusItem{
			BudgetWithCategory: b,
			Spent:              round2(spent),
			Utilization:        utilization,
			Status:             status,
		})
	}
	return &BudgetReport{Month: month, Items: items}, nil
}

// Anomaly is an expense at least twice its category's mean amount.
type Anomaly struct {
	Transaction     models.ExpenseWithCategory `json:"transaction"`
	CategoryAverage float64                    `json:"category_average"`
}

type AnomalyReport struct {
	Items []Anomaly `json:"items"`
}

// DetectAnomalies flags expenses whose amount is at least anomalyFactor
// times the mean of their category (uncategorized expenses form their own
// bucket). Categories with a zero mean never flag.
func (e *Engine) DetectAnomalies(ctx context.Context, userID int64) (*AnomalyReport, error) {
	means, err := e.transactions.ExpenseMeansByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := e.transactions.ListExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &AnomalyReport{Items: []Anomaly{}}
	for _, t := range expenses {
		var key int64
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		mean := means[key]
		if mean == 0 {
			continue
		}
		if t.Amount >= anomalyFactor*mean {
			report.Items = append(report.Items, Anomaly{Transaction: t, CategoryAverage: mean})
		}
	}
	return report, nil
}

// Summary is the month-or-all-time overview served by the analytics route.
type Summary struct {
	TotalIncome  float64                `json:"total_income"`
	TotalExpense float64                `json:"total_expense"`
	Categories   []models.CategoryTotal `json:"categories"`
	Trends       []models.DailyFlow     `json:"trends"`
}

func (e *Engine) Summary(ctx context.Context, userID int64, month string) (*Summary, error) {
	income, err := e.transactions.TotalByType(ctx, userID, models.TransactionTypeIncome, month)
	if err != nil {
		return nil, err
	}
	expense, err := e.transactions.TotalByType(ctx, userID, models.TransactionTypeExpense, month)
	if err != nil {
		return nil, err
	}
	categories, err := e.transactions.SpendingByCategory(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Total = round2(categories[i].Total)
	}
	trends, err := e.transactions.DailyTrend(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:  round2(income),
		TotalExpense: round2(expense),
		Categories:   categories,
		Trends:       trends,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
