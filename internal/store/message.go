package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devfolio/internal/models"
)

// MessageStore handles contact-message database operations. Messages are
// append-only apart from the read flag; there is no content update path.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore creates a new MessageStore with the given database connection.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, name, email, message, read, date`

// List returns all messages, newest first.
func (s *MessageStore) List() ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT ` + messageColumns + `
		FROM messages
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.Date); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// FindByID retrieves a message by its UUID. Returns nil if not found.
func (s *MessageStore) FindByID(id uuid.UUID) (*models.Message, error) {
	m := &models.Message{}
	err := s.db.QueryRow(`
		SELECT `+messageColumns+` FROM messages WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}

// Create inserts a new message. It always starts unread with a
// database-assigned timestamp.
func (s *MessageStore) Create(m *models.Message) (*models.Message, error) {
	created := &models.Message{}
	err := s.db.QueryRow(`
		INSERT INTO messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING `+messageColumns+`
	`, m.Name, m.Email, m.Message).Scan(
		&created.ID, &created.Name, &created.Email,
		&created.Message, &created.Read, &created.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return created, nil
}

// SetRead toggles the read flag for a message.
func (s *MessageStore) SetRead(id uuid.UUID, read bool) error {
	if _, err := s.db.Exec(`UPDATE messages SET read = $1 WHERE id = $2`, read, id); err != nil {
		return fmt.Errorf("set message read: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread messages, for the admin
// dashboard badge.
func (s *MessageStore) CountUnread() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE NOT read`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

// Delete removes a message by ID.
func (s *MessageStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
