// Package store provides database access for all Devfolio entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Identifiers and creation timestamps are always assigned by the
// database, never synthesized client-side.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"devfolio/internal/models"
)

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, description, image, tech_stack, github_link, demo_link, created_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	var stack []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, &stack,
		&p.GithubLink, &p.DemoLink, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stack, &p.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech stack: %w", err)
	}
	return p, nil
}

// List returns all projects, newest first. The result is never nil, so
// an empty table serializes as [] rather than null.
func (s *ProjectStore) List() ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRow(`
		SELECT `+projectColumns+` FROM projects WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// Create inserts a new project and returns it with the generated ID and
// creation timestamp.
func (s *ProjectStore) Create(p *models.Project) (*models.Project, error) {
	stack, err := json.Marshal(nonNilStrings(p.TechStack))
	if err != nil {
		return nil, fmt.Errorf("encode tech stack: %w", err)
	}

	created, err := scanProject(s.db.QueryRow(`
		INSERT INTO projects (title, description, image, tech_stack, github_link, demo_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+projectColumns+`
	`, p.Title, p.Description, p.Image, stack, nilIfEmpty(p.GithubLink), nilIfEmpty(p.DemoLink)))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update applies a sparse patch: only fields present in the patch enter
// the SET clause, everything else is left untouched.
func (s *ProjectStore) Update(id uuid.UUID, patch models.ProjectPatch) error {
	var b patchBuilder
	b.set("title", patch.Title)
	b.set("description", patch.Description)
	b.set("image", patch.Image)
	if patch.TechStack != nil {
		stack, err := json.Marshal(nonNilStrings(*patch.TechStack))
		if err != nil {
			return fmt.Errorf("encode tech stack: %w", err)
		}
		b.setValue("tech_stack", stack)
	}
	b.setNullable("github_link", patch.GithubLink)
	b.setNullable("demo_link", patch.DemoLink)

	if b.empty() {
		return nil
	}
	if err := b.exec(s.db, "projects", id); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// nonNilStrings guarantees a marshalable slice: nil encodes as JSON null,
// which the jsonb column round-trips as a scan failure later.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// nilIfEmpty maps an empty optional to NULL so the column stays nullable.
func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// patchBuilder accumulates a dynamic SET clause for sparse updates.
type patchBuilder struct {
	cols []string
	args []any
}

func (b *patchBuilder) setValue(col string, v any) {
	b.args = append(b.args, v)
	b.cols = append(b.cols, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *patchBuilder) set(col string, v *string) {
	if v != nil {
		b.setValue(col, *v)
	}
}

func (b *patchBuilder) setNullable(col string, v *string) {
	if v != nil {
		b.setValue(col, nilIfEmpty(v))
	}
}

func (b *patchBuilder) empty() bool {
	return len(b.cols) == 0
}

func (b *patchBuilder) exec(db *sql.DB, table string, id uuid.UUID) error {
	args := append(b.args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(b.cols, ", "), len(args),
	)
	_, err := db.Exec(query, args...)
	return err
}
