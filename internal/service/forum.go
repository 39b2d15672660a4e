package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/db"
	"github.com/crucial707/forum-api/internal/metrics"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/repo"
)

// ForumInput is the mutable part of a forum.
type ForumInput struct {
	Title       string
	Description string
	Tags        []string
}

// ForumService applies the forum ownership policy on top of the repositories.
//
// With ownerOnly set, only a forum's creator may update or delete it, matching
// the author-only rule comments always follow. With it unset, any authenticated
// user may do so.
type ForumService struct {
	db        *sql.DB
	ownerOnly bool
}

func NewForumService(conn *sql.DB, ownerOnly bool) *ForumService {
	return &ForumService{db: conn, ownerOnly: ownerOnly}
}

func (s *ForumService) authorize(userID int, f *models.Forum) error {
	if s.ownerOnly && f.CreatedBy != userID {
		return common.ErrForbidden
	}
	return nil
}

func (s *ForumService) List(ctx context.Context, limit, offset int) ([]models.Forum, int, error) {
	forums := repo.NewForumRepo(s.db)
	list, err := forums.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list forums: %w", err)
	}
	total, err := forums.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count forums: %w", err)
	}
	return list, total, nil
}

// Get returns the forum with its comments.
func (s *ForumService) Get(ctx context.Context, id int) (*models.ForumDetail, error) {
	f, err := repo.NewForumRepo(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := repo.NewCommentRepo(s.db).ListByForum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &models.ForumDetail{Forum: f, Comments: comments}, nil
}

// Create stores a forum owned by userID. The creator always comes from the
// authenticated identity, never from the request body.
func (s *ForumService) Create(ctx context.Context, userID int, in ForumInput) (*models.Forum, error) {
	f, err := repo.NewForumRepo(s.db).Create(ctx, in.Title, in.Description, NormalizeTags(in.Tags), userID)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *ForumService) Update(ctx context.Context, userID, id int, in ForumInput) (*models.Forum, error) {
	forums := repo.NewForumRepo(s.db)
	current, err := forums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(userID, current); err != nil {
		return nil, err
	}

	updated, err := forums.Update(ctx, id, in.Title, in.Description, NormalizeTags(in.Tags))
	if err != nil {
		return nil, err
	}
	updated.Creator = current.Creator
	return updated, nil
}

// Delete removes the forum and all of its comments in one transaction and
// reports how many comments went with it.
func (s *ForumService) Delete(ctx context.Context, userID, id int) (int64, error) {
	var removed int64
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		forums := repo.NewForumRepo(tx)
		f, err := forums.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(userID, f); err != nil {
			return err
		}

		removed, err = repo.NewCommentRepo(tx).DeleteByForum(ctx, id)
		if err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return forums.Delete(ctx, id)
	})
	if err != nil {
		return 0, err
	}

	metrics.AddCascadedComments(removed)
	return removed, nil
}

// NormalizeTags trims tags, drops empty ones and removes duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
