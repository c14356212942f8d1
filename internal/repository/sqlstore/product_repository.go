package sqlstore

import (
	"context"
	"fmt"
	"time"

	"store-api/internal/domain"
	"store-api/internal/repository"
)

const productColumns = `id, name, description, price, category_id, image_key, created_at, updated_at`

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	var id int64
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
INSERT INTO products (name, description, price, category_id, image_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`),
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.ImageKey,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err, "insert product")
	}

	product.ID = id
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
UPDATE products
SET name=?, description=?, price=?, category_id=?, updated_at=?
WHERE id=?`),
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return translateError(err, "update product")
	}
	return expectAffected(res, "update product")
}

func (r *ProductRepository) SetImageKey(ctx context.Context, id int64, key string) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
UPDATE products
SET image_key=?, updated_at=?
WHERE id=?`),
		key,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return translateError(err, "set product image")
	}
	return expectAffected(res, "set product image")
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM products WHERE id=?`), id)
	if err != nil {
		return translateError(err, "delete product")
	}
	return expectAffected(res, "delete product")
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
SELECT `+productColumns+`
FROM products
WHERE id=?`),
		id,
	)
	return scanProduct(row)
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, `
SELECT `+productColumns+`
FROM products
ORDER BY id ASC`)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return r.query(ctx, r.db.rebind(`
SELECT `+productColumns+`
FROM products
WHERE category_id=?
ORDER BY id ASC`), categoryID)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	return products, rows.Err()
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.ImageKey,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, translateError(err, "scan product")
	}
	return &product, nil
}
