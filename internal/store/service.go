package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"devfolio/internal/models"
)

// ServiceStore handles service database operations, including the
// explicit manual ordering the public services page relies on.
type ServiceStore struct {
	db *sql.DB
}

// NewServiceStore creates a new ServiceStore with the given database connection.
func NewServiceStore(db *sql.DB) *ServiceStore {
	return &ServiceStore{db: db}
}

const serviceColumns = `id, title, description, icon, featured, sort_order, created_at`

// List returns all services ordered by sort_order, creation date breaking
// ties. No further client-side sorting is applied.
func (s *ServiceStore) List() ([]models.Service, error) {
	rows, err := s.db.Query(`
		SELECT ` + serviceColumns + `
		FROM services
		ORDER BY sort_order ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	items := []models.Service{}
	for rows.Next() {
		var v models.Service
		var icon string
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &icon, &v.Featured, &v.SortOrder, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		v.Icon = models.ParseIcon(icon)
		items = append(items, v)
	}
	return items, rows.Err()
}

// FindByID retrieves a service by its UUID. Returns nil if not found.
func (s *ServiceStore) FindByID(id uuid.UUID) (*models.Service, error) {
	v := &models.Service{}
	var icon string
	err := s.db.QueryRow(`
		SELECT `+serviceColumns+` FROM services WHERE id = $1
	`, id).Scan(&v.ID, &v.Title, &v.Description, &icon, &v.Featured, &v.SortOrder, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service by id: %w", err)
	}
	v.Icon = models.ParseIcon(icon)
	return v, nil
}

// Create inserts a new service at the end of the manual order.
func (s *ServiceStore) Create(v *models.Service) (*models.Service, error) {
	created := &models.Service{}
	var icon string
	err := s.db.QueryRow(`
		INSERT INTO services (title, description, icon, featured, sort_order)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM services))
		RETURNING `+serviceColumns+`
	`, v.Title, v.Description, string(v.Icon), v.Featured).Scan(
		&created.ID, &created.Title, &created.Description, &icon,
		&created.Featured, &created.SortOrder, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	created.Icon = models.ParseIcon(icon)
	return created, nil
}

// Update applies a sparse patch. sort_order is owned by Reorder.
func (s *ServiceStore) Update(id uuid.UUID, patch models.ServicePatch) error {
	var b patchBuilder
	b.set("title", patch.Title)
	b.set("description", patch.Description)
	if patch.Icon != nil {
		b.setValue("icon", string(*patch.Icon))
	}
	if patch.Featured != nil {
		b.setValue("featured", *patch.Featured)
	}

	if b.empty() {
		return nil
	}
	if err := b.exec(s.db, "services", id); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete removes a service by ID.
func (s *ServiceStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM services WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// Count returns the number of services without fetching any rows.
func (s *ServiceStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM services`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return count, nil
}

// Reorder rewrites sort_order for the full ordered batch in one
// transaction: position i in ids becomes sort_order i. The list must
// name every service exactly once; partial or duplicated orderings are
// rejected so two concurrent admins cannot interleave into a state
// where sort_order is no longer a permutation.
func (s *ServiceStore) Reorder(ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("reorder services: duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder services: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM services`).Scan(&count); err != nil {
		return fmt.Errorf("reorder services: %w", err)
	}
	if count != len(ids) {
		return fmt.Errorf("reorder services: got %d ids for %d services", len(ids), count)
	}

	stmt, err := tx.Prepare(`UPDATE services SET sort_order = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("reorder services: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		res, err := stmt.Exec(i, id)
		if err != nil {
			return fmt.Errorf("reorder services: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("reorder services: %w", err)
		} else if n != 1 {
			return fmt.Errorf("reorder services: unknown id %s", id)
		}
	}

	return tx.Commit()
}

// defaultServices is the starter set inserted into an empty table so a
// fresh site has something to show.
var defaultServices = []models.Service{
	{Title: "Web Development", Description: "Modern, responsive web applications built end to end, from concept to deployment.", Icon: models.IconCode2, Featured: true},
	{Title: "Cloud Solutions", Description: "Design and migration of cloud-native infrastructure with an eye on cost and reliability.", Icon: models.IconCloud},
	{Title: "Performance Optimization", Description: "Profiling and tuning of slow pages, queries, and builds.", Icon: models.IconGauge},
	{Title: "Security Audits", Description: "Review of authentication, data handling, and dependencies against common attack paths.", Icon: models.IconShield},
	{Title: "Maintenance & Support", Description: "Ongoing care for existing products: upgrades, bug fixes, and monitoring.", Icon: models.IconWrench},
	{Title: "Consulting", Description: "Architecture and technology guidance for teams starting something new.", Icon: models.IconSparkles},
}

// SeedDefaults inserts the starter services, but only when the table is
// empty. The existence check is a COUNT query, not a row fetch.
func (s *ServiceStore) SeedDefaults() error {
	count, err := s.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i, v := range defaultServices {
		_, err := s.db.Exec(`
			INSERT INTO services (title, description, icon, featured, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`, v.Title, v.Description, string(v.Icon), v.Featured, i)
		if err != nil {
			return fmt.Errorf("seed services: %w", err)
		}
	}

	slog.Info("seeded default services", "count", len(defaultServices))
	return nil
}
