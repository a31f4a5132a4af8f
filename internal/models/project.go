// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio project shown on the public projects page.
// The id and creation timestamp are always assigned by the database.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	TechStack   []string  `json:"techStack"`
	GithubLink  *string   `json:"githubLink,omitempty"`
	DemoLink    *string   `json:"demoLink,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProjectPatch is a sparse update: nil fields are left untouched.
// A non-nil pointer to an empty value clears the column.
type ProjectPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	TechStack   *[]string `json:"techStack"`
	GithubLink  *string   `json:"githubLink"`
	DemoLink    *string   `json:"demoLink"`
}
