package repo

import (
	"context"

	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/db"
	"github.com/crucial707/forum-api/internal/models"
)

// CommentRepo persists forum comments.
type CommentRepo struct {
	db db.DBTX
}

func NewCommentRepo(conn db.DBTX) *CommentRepo {
	return &CommentRepo{db: conn}
}

func (r *CommentRepo) Create(ctx context.Context, forumID, userID int, content string) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (forum_id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, forum_id, user_id, content, created_at`,
		forumID, userID, content,
	).Scan(&c.ID, &c.ForumID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, translate(err, common.ErrCommentNotFound)
	}
	return c, nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, forum_id, user_id, content, created_at FROM comments WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ForumID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, translate(err, common.ErrCommentNotFound)
	}
	return c, nil
}

// ListByForum returns a forum's comments oldest first, with the author's username resolved.
func (r *CommentRepo) ListByForum(ctx context.Context, forumID int) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.forum_id, c.user_id, c.content, c.created_at, u.username
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.forum_id = $1
		 ORDER BY c.created_at, c.id`,
		forumID,
	)
	if err != nil {
		return nil, translate(err, common.ErrCommentNotFound)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c := models.Comment{Author: &models.UserRef{}}
		if err := rows.Scan(&c.ID, &c.ForumID, &c.UserID, &c.Content, &c.CreatedAt, &c.Author.Username); err != nil {
			return nil, err
		}
		c.Author.ID = c.UserID
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return translate(err, common.ErrCommentNotFound)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrCommentNotFound
	}
	return nil
}

// DeleteByForum removes every comment attached to forumID and reports how many were removed.
func (r *CommentRepo) DeleteByForum(ctx context.Context, forumID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE forum_id = $1`, forumID)
	if err != nil {
		return 0, translate(err, common.ErrCommentNotFound)
	}
	return result.RowsAffected()
}
