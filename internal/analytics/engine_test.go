package analytics

import (
	"context"
	"testing"

	"paisatrack/internal/models"
)

type fakeTransactionStore struct {
	spending []models.CategoryTotal
	spent    map[int64]float64
	means    map[int64]float64
	expenses []models.ExpenseWithCategory
	income   float64
	expense  float64
	trend    []models.DailyFlow
}

func (f *fakeTransactionStore) SpendingByCategory(ctx context.Context, userID int64, month string) ([]models.CategoryTotal, error) {
	return f.spending, nil
}

func (f *fakeTransactionStore) SpentByCategory(ctx context.Context, userID int64, month string) (map[int64]float64, error) {
	if f.spent == nil {
		return map[int64]float64{}, nil
	}
	return f.spent, nil
}

func (f *fakeTransactionStore) ExpenseMeansByCategory(ctx context.Context, userID int64) (map[int64]float64, error) {
	return f.means, nil
}

func (f *fakeTransactionStore) ListExpenses(ctx context.Context, userID int64) ([]models.ExpenseWithCategory, error) {
	return f.expenses, nil
}

func (f *fakeTransactionStore) TotalByType(ctx context.Context, userID int64, txType models.TransactionType, month string) (float64, error) {
	if txType == models.TransactionTypeIncome {
		return f.income, nil
	}
	return f.expense, nil
}

func (f *fakeTransactionStore) DailyTrend(ctx context.Context, userID int64, month string) ([]models.DailyFlow, error) {
	return f.trend, nil
}

type fakeBudgetStore struct {
	budgets []models.BudgetWithCategory
}

func (f *fakeBudgetStore) ListForMonth(ctx context.Context, userID int64, month string) ([]models.BudgetWithCategory, error) {
	return f.budgets, nil
}

func budgetFor(categoryID int64, limit float64) models.BudgetWithCategory {
	name := "Food & Dining"
	return models.BudgetWithCategory{
		Budget: models.Budget{
			ID:           1,
			UserID:       1,
			CategoryID:   &categoryID,
			MonthlyLimit: limit,
			Month:        "2026-08",
		},
		CategoryName: &name,
	}
}

func TestBudgetStatusThresholds(t *testing.T) {
	tests := []struct {
		name       string
		limit      float64
		spent      float64
		wantStatus string
		wantUtil   float64
	}{
		{name: "well over", limit: 100, spent: 95, wantStatus: "red", wantUtil: 0.95},
		{name: "exactly red boundary", limit: 100, spent: 90, wantStatus: "red", wantUtil: 0.90},
		{name: "yellow", limit: 100, spent: 75, wantStatus: "yellow", wantUtil: 0.75},
		{name: "exactly yellow boundary", limit: 100, spent: 70, wantStatus: "yellow", wantUtil: 0.70},
		{name: "green", limit: 100, spent: 50, wantStatus: "green", wantUtil: 0.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(
				&fakeTransactionStore{spent: map[int64]float64{7: tt.spent}},
				&fakeBudgetStore{budgets: []models.BudgetWithCategory{budgetFor(7, tt.limit)}},
			)

			report, err := engine.BudgetStatus(context.Background(), 1, "2026-08")
			if err != nil {
				t.Fatalf("BudgetStatus() error = %v", err)
			}
			if len(report.Items) != 1 {
				t.Fatalf("got %d items, want 1", len(report.Items))
			}
			item := report.Items[0]
			if item.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", item.Status, tt.wantStatus)
			}
			if item.Utilization != tt.wantUtil {
				t.Errorf("Utilization = %v, want %v", item.Utilization, tt.wantUtil)
			}
		})
	}
}

func TestBudgetStatusNoSpending(t *testing.T) {
	engine := NewEngine(
		&fakeTransactionStore{},
		&fakeBudgetStore{budgets: []models.BudgetWithCategory{budgetFor(7, 500)}},
	)

	report, err := engine.BudgetStatus(context.Background(), 1, "2026-08")
	if err != nil {
		t.Fatalf("BudgetStatus() error = %v", err)
	}
	item := report.Items[0]
	if item.Spent != 0 || item.Utilization != 0 || item.Status != "green" {
		t.Errorf("got spent=%v utilization=%v status=%q, want 0/0/green", item.Spent, item.Utilization, item.Status)
	}
}

func TestBudgetStatusZeroLimit(t *testing.T) {
	b := budgetFor(7, 0)
	engine := NewEngine(
		&fakeTransactionStore{spent: map[int64]float64{7: 300}},
		&fakeBudgetStore{budgets: []models.BudgetWithCategory{b}},
	)

	report, err := engine.BudgetStatus(context.Background(), 1, "2026-08")
	if err != nil {
		t.Fatalf("BudgetStatus() error = %v", err)
	}
	if report.Items[0].Utilization != 0 {
		t.Errorf("Utilization = %v, want 0 for non-positive limit", report.Items[0].Utilization)
	}
}

func expense(id int64, categoryID *int64, amount float64) models.ExpenseWithCategory {
	return models.ExpenseWithCategory{
		Transaction: models.Transaction{
			ID:         id,
			UserID:     1,
			Amount:     amount,
			Type:       models.TransactionTypeExpense,
			CategoryID: categoryID,
		},
	}
}

func TestDetectAnomalies(t *testing.T) {
	catID := int64(3)
	engine := NewEngine(&fakeTransactionStore{
		means: map[int64]float64{3: 100},
		expenses: []models.ExpenseWithCategory{
			expense(1, &catID, 200),    // exactly 2x, flagged
			expense(2, &catID, 199.99), // just under, not flagged
			expense(3, &catID, 50),
		},
	}, &fakeBudgetStore{})

	report, err := engine.DetectAnomalies(context.Background(), 1)
	if err != nil {
		t.Fatalf("DetectAnomalies() error = %v", err)
	}
	if len(report.Items) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(report.Items))
	}
	if report.Items[0].Transaction.ID != 1 {
		t.Errorf("flagged transaction id = %d, want 1", report.Items[0].Transaction.ID)
	}
	if report.Items[0].CategoryAverage != 100 {
		t.Errorf("CategoryAverage = %v, want 100", report.Items[0].CategoryAverage)
	}
}

func TestDetectAnomaliesZeroMeanNeverFlags(t *testing.T) {
	engine := NewEngine(&fakeTransactionStore{
		means: map[int64]float64{0: 0},
		expenses: []models.ExpenseWithCategory{
			expense(1, nil, 1000000),
		},
	}, &fakeBudgetStore{})

	report, err := engine.DetectAnomalies(context.Background(), 1)
	if err != nil {
		t.Fatalf("DetectAnomalies() error = %v", err)
	}
	if len(report.Items) != 0 {
		t.Errorf("got %d anomalies, want 0 for zero-mean category", len(report.Items))
	}
}

func TestDetectAnomaliesUncategorizedBucket(t *testing.T) {
	engine := NewEngine(&fakeTransactionStore{
		means: map[int64]float64{0: 40},
		expenses: []models.ExpenseWithCategory{
			expense(1, nil, 80), // 2x uncategorized mean
			expense(2, nil, 79),
		},
	}, &fakeBudgetStore{})

	report, err := engine.DetectAnomalies(context.Background(), 1)
	if err != nil {
		t.Fatalf("DetectAnomalies() error = %v", err)
	}
	if len(report.Items) != 1 || report.Items[0].Transaction.ID != 1 {
		t.Errorf("uncategorized expenses should use bucket 0, got %+v", report.Items)
	}
}

func TestSpendingByCategoryRounds(t *testing.T) {
	engine := NewEngine(&fakeTransactionStore{
		spending: []models.CategoryTotal{
			{Category: "Food & Dining", Total: 1234.5678},
			{Category: "Uncategorized", Total: 10.004},
		},
	}, &fakeBudgetStore{})

	report, err := engine.SpendingByCategory(context.Background(), 1, "2026-08")
	if err != nil {
		t.Fatalf("SpendingByCategory() error = %v", err)
	}
	if report.Month != "2026-08" {
		t.Errorf("Month = %q", report.Month)
	}
	if report.Categories[0].Total != 1234.57 {
		t.Errorf("Total = %v, want 1234.57", report.Categories[0].Total)
	}
	if report.Categories[1].Total != 10.00 {
		t.Errorf("Total = %v, want 10.00", report.Categories[1].Total)
	}
}

func TestSummary(t *testing.T) {
	engine := NewEngine(&fakeTransactionStore{
		income:  5000.456,
		expense: 3000.123,
		spending: []models.CategoryTotal{
			{Category: "Transport", Total: 3000.123},
		},
	}, &fakeBudgetStore{})

	summary, err := engine.Summary(context.Background(), 1, "2026-08")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalIncome != 5000.46 {
		t.Errorf("TotalIncome = %v, want 5000.46", summary.TotalIncome)
	}
	if summary.TotalExpense != 3000.12 {
		t.Errorf("TotalExpense = %v, want 3000.12", summary.TotalExpense)
	}
}
