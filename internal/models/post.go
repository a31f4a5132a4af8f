package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog post. Content is rich HTML produced by the admin editor.
// The publication date is assigned on creation and never changed by updates.
type Post struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	CoverImage string    `json:"coverImage"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
}

// PostPatch is a sparse update for a post. The date is deliberately
// absent: it belongs to creation only.
type PostPatch struct {
	Title      *string `json:"title"`
	Excerpt    *string `json:"excerpt"`
	Content    *string `json:"content"`
	CoverImage *string `json:"coverImage"`
	Author     *string `json:"author"`
}
