package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/forum-api/internal/common"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// foreign keys from the init migration and the entity each one points at
var missingReference = map[string]error{
	"forums_created_by_fkey": common.ErrUserNotFound,
	"comments_forum_id_fkey": common.ErrForumNotFound,
	"comments_user_id_fkey":  common.ErrUserNotFound,
}

// translate maps driver errors onto the common taxonomy. notFound is returned for sql.ErrNoRows.
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			if target, ok := missingReference[pqErr.Constraint]; ok {
				return target
			}
			return fmt.Errorf("%w: %s", common.ErrNotFound, pqErr.Constraint)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
