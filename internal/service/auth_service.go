package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-api/internal/auth"
	"store-api/internal/domain"
	"store-api/internal/repository"
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer signs tokens for a subject.
type TokenIssuer interface {
	Issue(subject string, issuedAt time.Time) (string, error)
}

// AuthResult is returned by a successful login or registration.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService verifies credentials and issues tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	ResolveIdentity(ctx context.Context, subject string) (auth.Identity, error)
}

type authService struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	now       func() time.Time
	dummyHash string
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) AuthService {
	s := &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
	// compared against on unknown emails so both failure paths cost one bcrypt run
	if h, err := hasher.Hash("timing-equaliser"); err == nil {
		s.dummyHash = h
	}
	return s
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify credential for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	user, err := newCredential(s.hasher, name, email, password)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCredential
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	ok, err := s.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify credential for user %d: %w", user.ID, err)
	}
	if !ok {
		return ErrPasswordMismatch
	}

	hash, err := hashPassword(s.hasher, newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *authService) ResolveIdentity(ctx context.Context, subject string) (auth.Identity, error) {
	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Identity{}, ErrUserNotFound
		}
		return auth.Identity{}, err
	}
	return auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   domain.RoleUser,
	}, nil
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.Email, s.now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: sanitizeUser(user)}, nil
}

func newCredential(hasher PasswordHasher, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, validationError("name is required")
	}
	if email == "" {
		return nil, validationError("email is required")
	}
	hash, err := hashPassword(hasher, password)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}, nil
}

func hashPassword(hasher PasswordHasher, password string) (string, error) {
	if password == "" {
		return "", validationError("password is required")
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", validationError("password must be at most 72 bytes")
		}
		return "", err
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
