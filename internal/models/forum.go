package models

import "time"

type Forum struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedBy   int       `json:"created_by"`
	Creator     *UserRef  `json:"creator,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ForumDetail is a forum together with its comments.
type ForumDetail struct {
	Forum    *Forum    `json:"forum"`
	Comments []Comment `json:"comments"`
}
