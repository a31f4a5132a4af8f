package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a contact-form submission. Name, email, and body are
// immutable after creation; only the read flag can change.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}
