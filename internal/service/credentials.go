// Package service holds the business rules that sit between the HTTP handlers
// and the repositories: credential checks and resource ownership.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/forum-api/internal/auth"
	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/models"
)

// UserStore is the persistence the credential store needs. *repo.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CredentialStore registers users and verifies their passwords.
type CredentialStore struct {
	users  UserStore
	hasher *auth.PasswordHasher
}

func NewCredentialStore(users UserStore, hasher *auth.PasswordHasher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new user with a bcrypt hash of password.
// It fails with common.ErrUserExists when the email is already registered.
func (s *CredentialStore) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrUserExists
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// the unique index still guards against a concurrent signup
	user, err := s.users.Create(ctx, strings.TrimSpace(username), email, hash)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Verify returns the user registered under email if password matches.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Profile loads the user a verified token points at. The user may have been
// removed after the token was issued, in which case common.ErrUserNotFound is returned.
func (s *CredentialStore) Profile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
