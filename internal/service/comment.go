package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/repo"
)

// CommentService creates, lists and deletes comments. Deletion is author-only.
type CommentService struct {
	db *sql.DB
}

func NewCommentService(conn *sql.DB) *CommentService {
	return &CommentService{db: conn}
}

// Create attaches a comment by userID to forumID. Both the author and the forum
// must exist.
func (s *CommentService) Create(ctx context.Context, userID, forumID int, content string) (*models.Comment, error) {
	author, err := repo.NewUserRepo(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := repo.NewForumRepo(s.db).GetByID(ctx, forumID); err != nil {
		return nil, err
	}

	c, err := repo.NewCommentRepo(s.db).Create(ctx, forumID, userID, content)
	if err != nil {
		return nil, err
	}
	c.Author = &models.UserRef{ID: author.ID, Username: author.Username}
	return c, nil
}

func (s *CommentService) ListByForum(ctx context.Context, forumID int) ([]models.Comment, error) {
	comments, err := repo.NewCommentRepo(s.db).ListByForum(ctx, forumID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Delete removes comment id if userID is its author.
func (s *CommentService) Delete(ctx context.Context, userID, id int) (*models.Comment, error) {
	comments := repo.NewCommentRepo(s.db)
	c, err := comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, common.ErrForbidden
	}
	if err := comments.Delete(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}
