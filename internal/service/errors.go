package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch is returned when the current password does not verify.
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrDuplicateCredential is returned when the email is already registered.
	ErrDuplicateCredential = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	// ErrInvalidCategory is returned when a product references a missing category.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrValidation wraps input problems detected by the service layer.
	ErrValidation = errors.New("validation failed")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
