package service

import (
	"context"
	"errors"
	"strings"

	"store-api/internal/domain"
	"store-api/internal/repository"
)

// UserService describes administrative user operations.
type UserService interface {
	List(ctx context.Context, sort domain.UserSort) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, name, email, password string) (*domain.User, error)
	Update(ctx context.Context, id int64, name, email string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

func (s *userService) List(ctx context.Context, sort domain.UserSort) ([]domain.User, error) {
	users, err := s.users.List(ctx, sort)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) Create(ctx context.Context, name, email, password string) (*domain.User, error) {
	user, err := newCredential(s.hasher, name, email, password)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, userError(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, id int64, name, email string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = normalizeEmail(email); email != "" {
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, userError(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return userError(s.users.Delete(ctx, id))
}

func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateCredential
	default:
		return err
	}
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
