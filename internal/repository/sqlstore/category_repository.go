package sqlstore

import (
	"context"
	"fmt"

	"store-api/internal/domain"
	"store-api/internal/repository"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
INSERT INTO categories (name)
VALUES (?)
RETURNING id`),
		category.Name,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err, "insert category")
	}
	category.ID = id
	return id, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	err := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT id, name FROM categories WHERE id=?`), id).
		Scan(&category.ID, &category.Name)
	if err != nil {
		return nil, translateError(err, "get category")
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
