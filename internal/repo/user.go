package repo

import (
	"context"
	"errors"

	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/db"
	"github.com/crucial707/forum-api/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	db db.DBTX
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(conn db.DBTX) *UserRepo {
	return &UserRepo{db: conn}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, created_at
	`

	user := &models.User{PasswordHash: passwordHash}

	err := r.db.QueryRowContext(ctx, query, username, email, passwordHash).
		Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)

	if err != nil {
		err = translate(err, common.ErrUserNotFound)
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		return nil, translate(err, common.ErrUserNotFound)
	}

	return user, nil
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}

	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		return nil, translate(err, common.ErrUserNotFound)
	}

	return user, nil
}
