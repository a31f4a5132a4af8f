// Package notify delivers contact-form notifications to the site owner
// through an EmailJS-compatible HTTP API. Delivery is best effort: the
// message is already persisted before a notification is attempted, so
// a failed send is logged and never surfaced to the visitor.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"devfolio/internal/models"
)

// DefaultEndpoint is the EmailJS REST send endpoint.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Notifier sends templated emails via an EmailJS-compatible service.
// The zero check in Enabled lets the server run without notification
// credentials in development.
type Notifier struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	client     *http.Client
}

// New creates a Notifier. Any of serviceID, templateID, or publicKey
// being empty disables delivery.
func New(endpoint, serviceID, templateID, publicKey string) *Notifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Notifier{
		endpoint:   endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether delivery credentials are configured.
func (n *Notifier) Enabled() bool {
	return n.serviceID != "" && n.templateID != "" && n.publicKey != ""
}

// sendRequest is the EmailJS send payload. TemplateParams keys must
// match the placeholders in the configured EmailJS template.
type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// ContactMessage emails the owner about a new contact-form submission.
func (n *Notifier) ContactMessage(ctx context.Context, msg *models.Message) error {
	return n.send(ctx, map[string]string{
		"from_name":  msg.Name,
		"from_email": msg.Email,
		"message":    msg.Message,
	})
}

func (n *Notifier) send(ctx context.Context, params map[string]string) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      n.serviceID,
		TemplateID:     n.templateID,
		UserID:         n.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("notify marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notify API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
