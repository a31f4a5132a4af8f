package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devfolio/internal/models"
)

// PostStore handles all blog-post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, excerpt, content, cover_image, author, date`

// List returns all posts, newest first by publication date.
func (s *PostStore) List() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Excerpt, &p.Content,
			&p.CoverImage, &p.Author, &p.Date,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p := &models.Post{}
	err := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Title, &p.Excerpt, &p.Content,
		&p.CoverImage, &p.Author, &p.Date,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post. The publication date is set by the database
// at insert time and is never touched again.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	created := &models.Post{}
	err := s.db.QueryRow(`
		INSERT INTO posts (title, excerpt, content, cover_image, author)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns+`
	`, p.Title, p.Excerpt, p.Content, p.CoverImage, p.Author).Scan(
		&created.ID, &created.Title, &created.Excerpt, &created.Content,
		&created.CoverImage, &created.Author, &created.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update applies a sparse patch. The date column is not reachable from a
// patch, so updates cannot shift a post's position in the list.
func (s *PostStore) Update(id uuid.UUID, patch models.PostPatch) error {
	var b patchBuilder
	b.set("title", patch.Title)
	b.set("excerpt", patch.Excerpt)
	b.set("content", patch.Content)
	b.set("cover_image", patch.CoverImage)
	b.set("author", patch.Author)

	if b.empty() {
		return nil
	}
	if err := b.exec(s.db, "posts", id); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
