package sqlstore

import (
	"context"
	"fmt"
	"time"

	"store-api/internal/domain"
	"store-api/internal/repository"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	var id int64
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
INSERT INTO users (name, email, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`),
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err, "insert user")
	}

	user.ID = id
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
UPDATE users
SET name=?, email=?, updated_at=?
WHERE id=?`),
		user.Name,
		user.Email,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return translateError(err, "update user")
	}
	return expectAffected(res, "update user")
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
UPDATE users
SET password_hash=?, updated_at=?
WHERE id=?`),
		passwordHash,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return translateError(err, "update user password")
	}
	return expectAffected(res, "update user password")
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM users WHERE id=?`), id)
	if err != nil {
		return translateError(err, "delete user")
	}
	return expectAffected(res, "delete user")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
SELECT `+userColumns+`
FROM users
WHERE email = ?`),
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
SELECT `+userColumns+`
FROM users
WHERE id = ?`),
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context, sort domain.UserSort) ([]domain.User, error) {
	// sort is whitelisted, never taken verbatim from the request
	orderBy := "name"
	if sort == domain.UserSortEmail {
		orderBy = "email"
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+userColumns+`
FROM users
ORDER BY `+orderBy+`, id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, translateError(err, "scan user")
	}
	return &user, nil
}
