package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"paisatrack/internal/database"
	"paisatrack/internal/models"
)

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, amount, type, category_id, merchant, description, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		tx.UserID, tx.Amount, tx.Type, tx.CategoryID, tx.Merchant, tx.Description, tx.Date,
	).Scan(&tx.ID, &tx.CreatedAt)
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.ExpenseWithCategory, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT t.id, t.user_id, t.amount, t.type, t.category_id, t.merchant, t.description,
		        t.date, t.created_at, c.name
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1
		 ORDER BY t.date DESC, t.created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoined(rows)
}

// TransactionUpdate carries the fields of a partial update; nil fields keep
// their current value.
type TransactionUpdate struct {
	Amount      *float64
	Type        *models.TransactionType
	CategoryID  *int64
	Merchant    *string
	Description *string
	Date        *time.Time
}

// Update applies the set fields and returns the updated row, (nil, nil) when
// the row does not belong to the user, or ErrNoFields when nothing was set.
func (r *TransactionRepository) Update(ctx context.Context, id, userID int64, upd TransactionUpdate) (*models.Transaction, error) {
	b := newUpdateBuilder(userID, id)
	if upd.Amount != nil {
		b.add("amount", *upd.Amount)
	}
	if upd.Type != nil {
		b.add("type", *upd.Type)
	}
	if upd.CategoryID != nil {
		b.add("category_id", *upd.CategoryID)
	}
	if upd.Merchant != nil {
		b.add("merchant", *upd.Merchant)
	}
	if upd.Description != nil {
		b.add("description", *upd.Description)
	}
	if upd.Date != nil {
		b.add("date", *upd.Date)
	}
	if b.empty() {
		return nil, ErrNoFields
	}

	tx := &models.Transaction{}
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE transactions SET `+b.clause()+` WHERE user_id = $1 AND id = $2
		 RETURNING id, user_id, amount, type, category_id, merchant, description, date, created_at`,
		b.args...,
	).Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.CategoryID,
		&tx.Merchant, &tx.Description, &tx.Date, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SpendingByCategory sums expense amounts per category name for one month,
// largest first. Transactions without a category land in "Uncategorized".
func (r *TransactionRepository) SpendingByCategory(ctx context.Context, userID int64, month string) ([]models.CategoryTotal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT COALESCE(c.name, 'Uncategorized') AS category, SUM(t.amount) AS total
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1 AND t.type = 'expense' AND to_char(t.date, 'YYYY-MM') = $2
		 GROUP BY COALESCE(c.name, 'Uncategorized')
		 ORDER BY total DESC`,
		userID, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// SpentByCategory returns expense sums keyed by category id for one month.
// Uncategorized spending is keyed under 0.
func (r *TransactionRepository) SpentByCategory(ctx context.Context, userID int64, month string) (map[int64]float64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT COALESCE(category_id, 0) AS category_id, SUM(amount) AS spent
		 FROM transactions
		 WHERE user_id = $1 AND type = 'expense' AND to_char(date, 'YYYY-MM') = $2
		 GROUP BY COALESCE(category_id, 0)`,
		userID, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spent := make(map[int64]float64)
	for rows.Next() {
		var categoryID int64
		var total float64
		if err := rows.Scan(&categoryID, &total); err != nil {
			return nil, err
		}
		spent[categoryID] = total
	}
	return spent, rows.Err()
}

// ExpenseMeansByCategory returns the all-time mean expense amount per
// category id, uncategorized keyed under 0.
func (r *TransactionRepository) ExpenseMeansByCategory(ctx context.Context, userID int64) (map[int64]float64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT COALESCE(category_id, 0) AS category_id, AVG(amount) AS avg_amount
		 FROM transactions
		 WHERE user_id = $1 AND type = 'expense'
		 GROUP BY COALESCE(category_id, 0)`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	means := make(map[int64]float64)
	for rows.Next() {
		var categoryID int64
		var mean float64
		if err := rows.Scan(&categoryID, &mean); err != nil {
			return nil, err
		}
		means[categoryID] = mean
	}
	return means, rows.Err()
}

func (r *TransactionRepository) ListExpenses(ctx context.Context, userID int64) ([]models.ExpenseWithCategory, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT t.id, t.user_id, t.amount, t.type, t.category_id, t.merchant, t.description,
		        t.date, t.created_at, c.name
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1 AND t.type = 'expense'`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	joined, err := scanJoined(rows)
	if err != nil {
		return nil, err
	}
	expenses := make([]models.ExpenseWithCategory, 0, len(joined))
	for _, e := range joined {
		expenses = append(expenses, *e)
	}
	return expenses, nil
}

// TotalByType sums amounts of one type, optionally restricted to a month
// (empty month means all time).
func (r *TransactionRepository) TotalByType(ctx context.Context, userID int64, txType models.TransactionType, month string) (float64, error) {
	var total float64
	var err error
	if month == "" {
		err = r.db.Pool.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND type = $2`,
			userID, txType,
		).Scan(&total)
	} else {
		err = r.db.Pool.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM transactions
			 WHERE user_id = $1 AND type = $2 AND to_char(date, 'YYYY-MM') = $3`,
			userID, txType, month,
		).Scan(&total)
	}
	return total, err
}

// DailyTrend returns per-day income and expense sums, optionally restricted
// to a month.
func (r *TransactionRepository) DailyTrend(ctx context.Context, userID int64, month string) ([]models.DailyFlow, error) {
	query := `SELECT date,
	                 SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END) AS income,
	                 SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END) AS expense
	          FROM transactions
	          WHERE user_id = $1`
	args := []any{userID}
	if month != "" {
		query += ` AND to_char(date, 'YYYY-MM') = $2`
		args = append(args, month)
	}
	query += ` GROUP BY date ORDER BY date`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trend []models.DailyFlow
	for rows.Next() {
		var d models.DailyFlow
		if err := rows.Scan(&d.Date, &d.Income, &d.Expense); err != nil {
			return nil, err
		}
		trend = append(trend, d)
	}
	return trend, rows.Err()
}

func scanJoined(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.ExpenseWithCategory, error) {
	var out []*models.ExpenseWithCategory
	for rows.Next() {
		e := &models.ExpenseWithCategory{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.CategoryID,
			&e.Merchant, &e.Description, &e.Date, &e.CreatedAt, &e.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
