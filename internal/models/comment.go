package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	ForumID   int       `json:"forum_id"`
	UserID    int       `json:"user_id"`
	Author    *UserRef  `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
