// Package common holds the error taxonomy shared by repositories, services and handlers.
package common

import (
	"errors"
	"fmt"
)

var (
	// repository specific errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrForumNotFound   = fmt.Errorf("forum %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)

	ErrUserExists = fmt.Errorf("user %w", ErrConflict)

	// auth-specific errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")

	// ownership
	ErrForbidden = errors.New("forbidden")

	ErrValidation = errors.New("validation error")
)
