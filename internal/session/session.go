// Package session provides Valkey-backed HTTP session management for the
// admin console. Sessions are identified by a secure cookie and stored as
// JSON in Valkey with an absolute TTL, plus an inactivity deadline: a
// session untouched for the idle window is ended early, and the next
// request on its cookie learns it ended due to inactivity.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"devfolio/internal/idle"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "df_session"

	// DefaultTTL is the absolute session lifetime, independent of activity.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey.
	keyPrefix = "session:"

	// idlePrefix namespaces idle tombstones: short-lived markers left
	// behind when a session is ended for inactivity, so the next request
	// can distinguish "idle logout" from "expired or never existed".
	idlePrefix = "session-idle:"

	// idleTombstoneTTL is how long the inactivity marker survives.
	idleTombstoneTTL = 10 * time.Minute

	// idLength is the byte length of the random session ID.
	idLength = 32
)

// Data holds the session payload stored in Valkey.
type Data struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	TwoFAPending bool      `json:"two_fa_pending"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store manages session lifecycle in Valkey plus the per-session
// inactivity deadline.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	idle   *idle.Monitor
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// idleWindow is the inactivity span after which a session is force-ended
// (zero means the package default).
func NewStore(client *redis.Client, secure bool, idleWindow time.Duration) *Store {
	s := &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
	s.idle = idle.NewMonitor(idleWindow, s.expireIdle)
	return s
}

// Create generates a new session, stores it in Valkey, sets the session
// cookie, and arms the inactivity deadline. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	s.idle.Touch(id)

	return id, nil
}

// Get retrieves session data using the session ID from the request
// cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil, nil // Expired, idle-ended, or never existed
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Update replaces the session data without changing the session ID or
// cookie. Resets the absolute TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+cookie.Value, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session update: %w", err)
	}

	return nil
}

// Touch records activity on the request's session: the inactivity
// deadline restarts at the full window. Requests without a cookie are
// ignored.
func (s *Store) Touch(r *http.Request) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return
	}
	s.idle.Touch(cookie.Value)
}

// EndedIdle reports whether the cookie on this request belonged to a
// session that was ended for inactivity.
func (s *Store) EndedIdle(ctx context.Context, r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	n, err := s.client.Exists(ctx, idlePrefix+cookie.Value).Result()
	return err == nil && n > 0
}

// Destroy removes the session from Valkey, cancels its inactivity
// deadline, and clears the cookie. It never leaves a session behind:
// a missing cookie or store error still results in a cleared cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		s.client.Del(ctx, keyPrefix+cookie.Value)
		s.client.Del(ctx, idlePrefix+cookie.Value)
		s.idle.Cancel(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Close detaches all inactivity deadlines. Sessions themselves survive
// in Valkey until their absolute TTL.
func (s *Store) Close() {
	s.idle.Close()
}

// expireIdle is the idle monitor's callback: the session is deleted and
// an idle tombstone takes its place.
func (s *Store) expireIdle(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		slog.Warn("idle logout: session delete failed", "error", err)
	}
	if err := s.client.Set(ctx, idlePrefix+id, "1", idleTombstoneTTL).Err(); err != nil {
		slog.Warn("idle logout: tombstone write failed", "error", err)
	}
	slog.Info("session ended due to inactivity")
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
