package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"paisatrack/internal/database"
	"paisatrack/internal/models"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, type) VALUES ($1, $2, $3)
		 RETURNING id`,
		category.UserID, category.Name, category.Type,
	).Scan(&category.ID)
}

// FindByNameAndType matches the user's own categories and shared ones,
// case-insensitively. Returns (nil, nil) when nothing matches.
func (r *CategoryRepository) FindByNameAndType(ctx context.Context, userID int64, name string, txType models.TransactionType) (*models.Category, error) {
	cat := &models.Category{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, type FROM categories
		 WHERE (user_id = $1 OR user_id IS NULL) AND name ILIKE $2 AND type = $3
		 LIMIT 1`,
		userID, name, txType,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// FindByName is the exact-name lookup used by budget creation, which does
// not care about the category type.
func (r *CategoryRepository) FindByName(ctx context.Context, userID int64, name string) (*models.Category, error) {
	cat := &models.Category{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, type FROM categories
		 WHERE (user_id = $1 OR user_id IS NULL) AND name = $2
		 LIMIT 1`,
		userID, name,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *CategoryRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, name, type FROM categories
		 WHERE user_id = $1 OR user_id IS NULL
		 ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		cat := &models.Category{}
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
