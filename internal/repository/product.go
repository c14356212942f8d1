package repository

import (
	"context"

	"store-api/internal/domain"
)

// ProductRepository exposes persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	Update(ctx context.Context, product *domain.Product) error
	SetImageKey(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

// CategoryRepository exposes persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}
