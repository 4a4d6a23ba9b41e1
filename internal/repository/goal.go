package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"paisatrack/internal/database"
	"paisatrack/internal/models"
)

type GoalRepository struct {
	db *database.DB
}

func NewGoalRepository(db *database.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, g *models.Goal) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO goals (user_id, name, target_amount, current_amount, target_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate,
	).Scan(&g.ID)
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Goal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, target_date
		 FROM goals WHERE user_id = $1 ORDER BY target_date`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g := &models.Goal{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GoalUpdate carries the fields of a partial update; nil fields keep their
// current value.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *float64
	CurrentAmount *float64
	TargetDate    *time.Time
}

func (r *GoalRepository) Update(ctx context.Context, id, userID int64, upd GoalUpdate) (*models.Goal, error) {
	b := newUpdateBuilder(userID, id)
	if upd.Name != nil {
		b.add("name", *upd.Name)
	}
	if upd.TargetAmount != nil {
		b.add("target_amount", *upd.TargetAmount)
	}
	if upd.CurrentAmount != nil {
		b.add("current_amount", *upd.CurrentAmount)
	}
	if upd.TargetDate != nil {
		b.add("target_date", *upd.TargetDate)
	}
	if b.empty() {
		return nil, ErrNoFields
	}

	g := &models.Goal{}
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE goals SET `+b.clause()+` WHERE user_id = $1 AND id = $2
		 RETURNING id, user_id, name, target_amount, current_amount, target_date`,
		b.args...,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GoalRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
