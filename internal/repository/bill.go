package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"paisatrack/internal/database"
	"paisatrack/internal/models"
)

type BillRepository struct {
	db *database.DB
}

func NewBillRepository(db *database.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, b *models.Bill) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO bills (user_id, name, amount, due_date, is_recurring, recurrence_rule, paid)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		b.UserID, b.Name, b.Amount, b.DueDate, b.IsRecurring, b.RecurrenceRule, b.Paid,
	).Scan(&b.ID)
}

func (r *BillRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Bill, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, name, amount, due_date, is_recurring, recurrence_rule, paid
		 FROM bills WHERE user_id = $1 ORDER BY due_date`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b := &models.Bill{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate,
			&b.IsRecurring, &b.RecurrenceRule, &b.Paid); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListForCalendarMonth returns bills whose due date falls in the given
// "YYYY-MM" month, earliest first.
func (r *BillRepository) ListForCalendarMonth(ctx context.Context, userID int64, month string) ([]*models.Bill, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, name, amount, due_date, is_recurring, recurrence_rule, paid
		 FROM bills WHERE user_id = $1 AND to_char(due_date, 'YYYY-MM') = $2
		 ORDER BY due_date`,
		userID, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b := &models.Bill{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate,
			&b.IsRecurring, &b.RecurrenceRule, &b.Paid); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// BillUpdate carries the fields of a partial update; nil fields keep their
// current value.
type BillUpdate struct {
	Name           *string
	Amount         *float64
	DueDate        *time.Time
	IsRecurring    *bool
	RecurrenceRule *string
	Paid           *bool
}

func (r *BillRepository) Update(ctx context.Context, id, userID int64, upd BillUpdate) (*models.Bill, error) {
	b := newUpdateBuilder(userID, id)
	if upd.Name != nil {
		b.add("name", *upd.Name)
	}
	if upd.Amount != nil {
		b.add("amount", *upd.Amount)
	}
	if upd.DueDate != nil {
		b.add("due_date", *upd.DueDate)
	}
	if upd.IsRecurring != nil {
		b.add("is_recurring", *upd.IsRecurring)
	}
	if upd.RecurrenceRule != nil {
		b.add("recurrence_rule", *upd.RecurrenceRule)
	}
	if upd.Paid != nil {
		b.add("paid", *upd.Paid)
	}
	if b.empty() {
		return nil, ErrNoFields
	}

	bill := &models.Bill{}
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE bills SET `+b.clause()+` WHERE user_id = $1 AND id = $2
		 RETURNING id, user_id, name, amount, due_date, is_recurring, recurrence_rule, paid`,
		b.args...,
	).Scan(&bill.ID, &bill.UserID, &bill.Name, &bill.Amount, &bill.DueDate,
		&bill.IsRecurring, &bill.RecurrenceRule, &bill.Paid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *BillRepository) SetPaid(ctx context.Context, id, userID int64, paid bool) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE bills SET paid = $1 WHERE id = $2 AND user_id = $3`,
		paid, id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BillRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM bills WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
