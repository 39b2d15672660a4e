package repo

import (
	"context"

	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/db"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/lib/pq"
)

// ========================
// REPOSITORY STRUCT
// ========================

type ForumRepo struct {
	db db.DBTX
}

func NewForumRepo(conn db.DBTX) *ForumRepo {
	return &ForumRepo{db: conn}
}

const forumWithCreator = `
	SELECT f.id, f.title, f.description, f.tags, f.created_by, f.created_at, u.username
	FROM forums f
	JOIN users u ON u.id = f.created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForumWithCreator(row rowScanner) (*models.Forum, error) {
	f := &models.Forum{Creator: &models.UserRef{}}
	err := row.Scan(&f.ID, &f.Title, &f.Description, pq.Array(&f.Tags), &f.CreatedBy, &f.CreatedAt, &f.Creator.Username)
	if err != nil {
		return nil, err
	}
	f.Creator.ID = f.CreatedBy
	if f.Tags == nil {
		f.Tags = []string{}
	}
	return f, nil
}

// ========================
// CREATE FORUM
// ========================

func (r *ForumRepo) Create(ctx context.Context, title, description string, tags []string, createdBy int) (*models.Forum, error) {
	if tags == nil {
		tags = []string{}
	}
	f := &models.Forum{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO forums (title, description, tags, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, description, tags, created_by, created_at`,
		title, description, pq.Array(tags), createdBy,
	).Scan(&f.ID, &f.Title, &f.Description, pq.Array(&f.Tags), &f.CreatedBy, &f.CreatedAt)
	if err != nil {
		return nil, translate(err, common.ErrForumNotFound)
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	return f, nil
}

// ========================
// GET FORUM BY ID
// ========================

func (r *ForumRepo) GetByID(ctx context.Context, id int) (*models.Forum, error) {
	row := r.db.QueryRowContext(ctx, forumWithCreator+` WHERE f.id = $1`, id)
	f, err := scanForumWithCreator(row)
	if err != nil {
		return nil, translate(err, common.ErrForumNotFound)
	}
	return f, nil
}

// ========================
// LIST FORUMS WITH PAGINATION
// ========================

func (r *ForumRepo) List(ctx context.Context, limit, offset int) ([]models.Forum, error) {
	rows, err := r.db.QueryContext(ctx,
		forumWithCreator+` ORDER BY f.created_at DESC, f.id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, translate(err, common.ErrForumNotFound)
	}
	defer rows.Close()

	forums := []models.Forum{}
	for rows.Next() {
		f, err := scanForumWithCreator(rows)
		if err != nil {
			return nil, err
		}
		forums = append(forums, *f)
	}
	return forums, rows.Err()
}

// Count returns the total number of forums.
func (r *ForumRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forums`).Scan(&n)
	return n, err
}

// ========================
// UPDATE FORUM BY ID
// ========================

func (r *ForumRepo) Update(ctx context.Context, id int, title, description string, tags []string) (*models.Forum, error) {
	if tags == nil {
		tags = []string{}
	}
	f := &models.Forum{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE forums
		 SET title = $1, description = $2, tags = $3
		 WHERE id = $4
		 RETURNING id, title, description, tags, created_by, created_at`,
		title, description, pq.Array(tags), id,
	).Scan(&f.ID, &f.Title, &f.Description, pq.Array(&f.Tags), &f.CreatedBy, &f.CreatedAt)
	if err != nil {
		return nil, translate(err, common.ErrForumNotFound)
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	return f, nil
}

// ========================
// DELETE FORUM BY ID
// ========================

func (r *ForumRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM forums WHERE id = $1`, id)
	if err != nil {
		return translate(err, common.ErrForumNotFound)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrForumNotFound
	}
	return nil
}
