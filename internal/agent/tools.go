package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paisatrack/internal/analytics"
	"paisatrack/internal/models"
)

// ToolDeps are the collaborators the tool handlers close over.
type ToolDeps struct {
	Engine       *analytics.Engine
	Categories   CategoryStore
	Transactions TransactionWriter
	Budgets      BudgetWriter
	Goals        GoalWriter
	Now          Clock
}

// NewRegistry builds the fixed tool catalog. Mutation happens only inside
// add_transaction, create_or_update_budget and create_goal; everything else
// is read-only aggregation.
func NewRegistry(d ToolDeps) *Registry {
	r := newRegistry()

	r.register("currency_to_base",
		"Convert any foreign currency amount to Indian Rupees (INR). Use this when user specifies an amount in a foreign currency like USD, EUR, GBP, etc.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"amount": {"type": "number", "description": "The amount in the source currency"},
				"from_currency": {"type": "string", "description": "Source currency code (e.g., USD, EUR, GBP, JPY, RUB)"}
			},
			"required": ["amount", "from_currency"]
		}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			var in struct {
				Amount       float64 `json:"amount"`
				FromCurrency string  `json:"from_currency"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return analytics.ConvertToBase(in.Amount, in.FromCurrency)
		})

	r.register("add_transaction",
		"Add a new income or expense transaction for the current user. When user mentions a product, service, or activity (e.g., \"pizza\", \"coffee\", \"movie\", \"haircut\"), intelligently determine the merchant name and category.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"amount": {"type": "number"},
				"type": {"type": "string", "enum": ["income", "expense"]},
				"merchant": {"type": "string", "description": "Merchant or service provider name. If user mentions a product/service without merchant (e.g., \"pizza\", \"coffee\"), infer a representative merchant name that clearly symbolizes the product (e.g., \"Pizza Place\", \"Coffee Shop\")."},
				"description": {"type": "string", "description": "Detailed description of the transaction including the product/service mentioned by the user."},
				"category_name": {"type": "string", "description": "Category name that best matches the transaction. Choose from common categories: Food & Dining, Groceries, Transport, Shopping, Entertainment, Healthcare, Utilities, Education, Travel, Personal Care, Subscriptions, Salary, Freelance, Investment, or create a new appropriate category."},
				"date": {"type": "string", "description": "ISO date string (YYYY-MM-DD)"}
			},
			"required": ["amount", "type"]
		}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			var in struct {
				Amount       float64 `json:"amount"`
				Type         string  `json:"type"`
				Merchant     *string `json:"merchant"`
				Description  *string `json:"description"`
				CategoryName *string `json:"category_name"`
				Date         *string `json:"date"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Amount <= 0 {
				return nil, fmt.Errorf("amount must be positive")
			}
			txType := models.TransactionType(in.Type)
			if !txType.Valid() {
				return nil, fmt.Errorf("type must be income or expense")
			}

			date := d.Now()
			if in.Date != nil && *in.Date != "" {
				parsed, err := time.Parse("2006-01-02", *in.Date)
				if err != nil {
					return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", *in.Date)
				}
				date = parsed
			}

			var categoryID *int64
			if in.CategoryName != nil && *in.CategoryName != "" {
				cat, err := getOrCreateCategory(ctx, d.Categories, userID, *in.CategoryName, txType)
				if err != nil {
					return nil, err
				}
				categoryID = &cat.ID
			}

			tx := &models.Transaction{
				UserID:      userID,
				Amount:      in.Amount,
				Type:        txType,
				CategoryID:  categoryID,
				Merchant:    in.Merchant,
				Description: in.Description,
				Date:        date,
			}
			if err := d.Transactions.Create(ctx, tx); err != nil {
				return nil, err
			}
			return map[string]any{"transaction": tx}, nil
		})

	r.register("spending_by_category",
		"Get total spending by category for a given month",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"month": {"type": "string", "description": "YYYY-MM, defaults to current month"}
			}
		}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			var in struct {
				Month *string `json:"month"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			month := monthOrCurrent(in.Month, d.Now)
			return d.Engine.SpendingByCategory(ctx, userID, month)
		})

	r.register("create_or_update_budget",
		"Create or update a monthly budget for a category",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"category_name": {"type": "string"},
				"monthly_limit": {"type": "number"},
				"month": {"type": "string", "description": "YYYY-MM, defaults to current month"}
			},
			"required": ["category_name", "monthly_limit"]
		}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			var in struct {
				CategoryName string  `json:"category_name"`
				MonthlyLimit float64 `json:"monthly_limit"`
				Month        *string `json:"month"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.CategoryName == "" {
				return nil, fmt.Errorf("category_name is required")
			}
			if in.MonthlyLimit <= 0 {
				return nil, fmt.Errorf("monthly_limit must be positive")
			}

			cat, err := d.Categories.FindByName(ctx, userID, in.CategoryName)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				cat = &models.Category{UserID: &userID, Name: in.CategoryName, Type: models.TransactionTypeExpense}
				if err := d.Categories.Create(ctx, cat); err != nil {
					return nil, err
				}
			}

			b := &models.Budget{
				UserID:       userID,
				CategoryID:   &cat.ID,
				MonthlyLimit: in.MonthlyLimit,
				Month:        monthOrCurrent(in.Month, d.Now),
			}
			if err := d.Budgets.Upsert(ctx, b); err != nil {
				return nil, err
			}
			return map[string]any{"budget": b}, nil
		})

	r.register("budget_status",
		"Get current utilization and color status for all budgets",
		json.RawMessage(`{"type": "object", "properties": {}}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			return d.Engine.BudgetStatus(ctx, userID, d.Now().Format("2006-01"))
		})

	r.register("detect_anomalies",
		"Detect unusual spending patterns for the user",
		json.RawMessage(`{"type": "object", "properties": {}}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			return d.Engine.DetectAnomalies(ctx, userID)
		})

	r.register("suggest_savings",
		"Suggest ways the user can save money based on recent spending and goals",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"target_amount": {"type": "number", "description": "Target amount the user wants to save (optional, used for goals)"},
				"target_date": {"type": "string", "description": "Target date to reach savings goal (YYYY-MM-DD, optional)"}
			}
		}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			var in struct {
				TargetAmount *float64 `json:"target_amount"`
				TargetDate   *string  `json:"target_date"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			month := d.Now().Format("2006-01")
			report, err := d.Engine.SpendingByCategory(ctx, userID, month)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"month":          month,
				"target_amount":  in.TargetAmount,
				"target_date":    in.TargetDate,
				"top_categories": report.Categories,
			}, nil
		})

	r.register("create_goal",
		"Create a savings goal for the user. Use when user wants to save a specific amount by a target date.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Name/description of the savings goal (e.g., \"Vacation\", \"New Laptop\", \"Emergency Fund\")"},
				"target_amount": {"type": "number", "description": "Target amount to save in Rupees"},
				"target_date": {"type": "string", "description": "Target date to achieve the goal (YYYY-MM-DD format)"},
				"current_amount": {"type": "number", "description": "Current saved amount (optional, defaults to 0)"}
			},
			"required": ["name", "target_amount", "target_date"]
		}`),
		func(ctx context.Context, userID int64, args json.RawMessage) (any, error) {
			var in struct {
				Name          string   `json:"name"`
				TargetAmount  float64  `json:"target_amount"`
				TargetDate    string   `json:"target_date"`
				CurrentAmount *float64 `json:"current_amount"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Name == "" {
				return nil, fmt.Errorf("name is required")
			}
			targetDate, err := time.Parse("2006-01-02", in.TargetDate)
			if err != nil {
				return nil, fmt.Errorf("invalid target_date %q: expected YYYY-MM-DD", in.TargetDate)
			}

			g := &models.Goal{
				UserID:       userID,
				Name:         in.Name,
				TargetAmount: in.TargetAmount,
				TargetDate:   targetDate,
			}
			if in.CurrentAmount != nil {
				g.CurrentAmount = *in.CurrentAmount
			}
			if err := d.Goals.Create(ctx, g); err != nil {
				return nil, err
			}
			return map[string]any{"goal": g}, nil
		})

	return r
}

// getOrCreateCategory looks a category up by (owner-or-shared, name, type)
// and creates a user-owned one when absent. A concurrent creator can slip a
// duplicate row in between lookup and insert; that race is accepted.
func getOrCreateCategory(ctx context.Context, store CategoryStore, userID int64, name string, txType models.TransactionType) (*models.Category, error) {
	cat, err := store.FindByNameAndType(ctx, userID, name, txType)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		return cat, nil
	}

	cat = &models.Category{UserID: &userID, Name: name, Type: txType}
	if err := store.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func monthOrCurrent(month *string, now Clock) string {
	if month != nil && *month != "" {
		return *month
	}
	return now().Format("2006-01")
}
