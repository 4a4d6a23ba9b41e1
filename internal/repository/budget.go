package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"paisatrack/internal/database"
	"paisatrack/internal/models"
)

type BudgetRepository struct {
	db *database.DB
}

func NewBudgetRepository(db *database.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Upsert inserts the budget or, when a row already exists for the
// (user, category, month) key, replaces its monthly limit.
func (r *BudgetRepository) Upsert(ctx context.Context, b *models.Budget) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category_id, monthly_limit, month)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, category_id, month)
		 DO UPDATE SET monthly_limit = EXCLUDED.monthly_limit
		 RETURNING id`,
		b.UserID, b.CategoryID, b.MonthlyLimit, b.Month,
	).Scan(&b.ID)
}

func (r *BudgetRepository) Create(ctx context.Context, b *models.Budget) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category_id, monthly_limit, month)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		b.UserID, b.CategoryID, b.MonthlyLimit, b.Month,
	).Scan(&b.ID)
}

// BudgetUpdate carries the fields of a partial update; nil fields keep
// their current value.
type BudgetUpdate struct {
	CategoryID   *int64
	MonthlyLimit *float64
	Month        *string
}

func (r *BudgetRepository) Update(ctx context.Context, id, userID int64, upd BudgetUpdate) (*models.Budget, error) {
	b := newUpdateBuilder(userID, id)
	if upd.CategoryID != nil {
		b.add("category_id", *upd.CategoryID)
	}
	if upd.MonthlyLimit != nil {
		b.add("monthly_limit", *upd.MonthlyLimit)
	}
	if upd.Month != nil {
		b.add("month", *upd.Month)
	}
	if b.empty() {
		return nil, ErrNoFields
	}

	budget := &models.Budget{}
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE budgets SET `+b.clause()+` WHERE user_id = $1 AND id = $2
		 RETURNING id, user_id, category_id, monthly_limit, month`,
		b.args...,
	).Scan(&budget.ID, &budget.UserID, &budget.CategoryID, &budget.MonthlyLimit, &budget.Month)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *BudgetRepository) ListForMonth(ctx context.Context, userID int64, month string) ([]models.BudgetWithCategory, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.monthly_limit, b.month, c.name
		 FROM budgets b
		 LEFT JOIN categories c ON b.category_id = c.id
		 WHERE b.user_id = $1 AND b.month = $2`,
		userID, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.BudgetWithCategory
	for rows.Next() {
		var b models.BudgetWithCategory
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.MonthlyLimit, &b.Month, &b.CategoryName); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]models.BudgetWithCategory, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.monthly_limit, b.month, c.name
		 FROM budgets b
		 LEFT JOIN categories c ON b.category_id = c.id
		 WHERE b.user_id = $1
		 ORDER BY b.month DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.BudgetWithCategory
	for rows.Next() {
		var b models.BudgetWithCategory
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.MonthlyLimit, &b.Month, &b.CategoryName); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
