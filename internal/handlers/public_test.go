package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"devfolio/internal/models"
	"devfolio/internal/notify"
)

// A fresh site has empty collections; they must reach the wire as []
// and never as null.
func TestEmptyCollectionsSerializeAsArrays(t *testing.T) {
	store := map[string]any{
		"projects": []models.Project{},
		"posts":    []models.Post{},
		"services": []models.Service{},
		"messages": []models.Message{},
	}
	for name, list := range store {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondJSON(rec, http.StatusOK, list)
			if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
				t.Fatalf("empty %s list serialized as %q, want []", name, got)
			}
		})
	}
}

func TestContactRejectsInvalidInput(t *testing.T) {
	// Validation fires before any store access, so no database needed.
	p := NewPublic(nil, nil, nil, nil, nil, nil, nil, nil)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@b.co", "message": "hi"}},
		{"missing email", map[string]string{"name": "Ada", "message": "hi"}},
		{"missing message", map[string]string{"name": "Ada", "email": "a@b.co"}},
		{"malformed email", map[string]string{"name": "Ada", "email": "not-an-email", "message": "hi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			p.Contact(rec, jsonRequest(t, http.MethodPost, "/api/contact", "", tc.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestContactPersistsMessage(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"message": "I would like to discuss a project.",
	}
	rec := httptest.NewRecorder()
	env.public.Contact(rec, jsonRequest(t, http.MethodPost, "/api/contact", "", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var msg models.Message
	decodeBody(t, rec, &msg)
	t.Cleanup(func() { env.db.Exec("DELETE FROM messages WHERE id = $1", msg.ID) })

	if msg.Read {
		t.Error("new message should be unread")
	}

	stored, err := env.messages.FindByID(msg.ID)
	if err != nil || stored == nil {
		t.Fatalf("message not persisted: %v", err)
	}
	if stored.Email != "ada@example.com" {
		t.Errorf("stored email = %q", stored.Email)
	}
}

func TestContactReportsNotificationOutcome(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name         string
		status       int
		wantNotified bool
	}{
		{"delivery succeeds", http.StatusOK, true},
		{"delivery fails", http.StatusBadGateway, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			public := NewPublic(env.profile, env.projects, env.posts, env.services, env.messages,
				nil, notify.New(srv.URL, "svc", "tpl", "pk"), nil)

			rec := httptest.NewRecorder()
			public.Contact(rec, jsonRequest(t, http.MethodPost, "/api/contact", "", map[string]string{
				"name":    "Ada",
				"email":   "ada@example.com",
				"message": "outcome check",
			}))

			// The save must succeed regardless of delivery.
			if rec.Code != http.StatusCreated {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}

			var resp struct {
				models.Message
				Notified bool   `json:"notified"`
				Warning  string `json:"warning"`
			}
			decodeBody(t, rec, &resp)
			t.Cleanup(func() { env.db.Exec("DELETE FROM messages WHERE id = $1", resp.ID) })

			if resp.Notified != tc.wantNotified {
				t.Errorf("notified = %v, want %v", resp.Notified, tc.wantNotified)
			}
			if !tc.wantNotified && resp.Warning == "" {
				t.Error("failed delivery should carry a warning")
			}

			stored, err := env.messages.FindByID(resp.ID)
			if err != nil || stored == nil {
				t.Fatalf("message not persisted: %v", err)
			}
		})
	}
}

func TestCVDownload(t *testing.T) {
	env := newTestEnv(t)

	prof, err := env.profile.Get()
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	orig := prof.CVUrl
	t.Cleanup(func() {
		prof.CVUrl = orig
		env.profile.Save(prof)
	})

	setCV := func(t *testing.T, url string) {
		prof.CVUrl = url
		if err := env.profile.Save(prof); err != nil {
			t.Fatalf("save profile: %v", err)
		}
	}

	public := NewPublic(env.profile, env.projects, env.posts, env.services, env.messages,
		nil, nil, newFakeStorage(t))

	t.Run("none configured", func(t *testing.T) {
		setCV(t, "")
		rec := httptest.NewRecorder()
		public.CV(rec, httptest.NewRequest(http.MethodGet, "/api/cv", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("externally hosted", func(t *testing.T) {
		setCV(t, "https://example.com/resume.pdf")
		rec := httptest.NewRecorder()
		public.CV(rec, httptest.NewRequest(http.MethodGet, "/api/cv", nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "https://example.com/resume.pdf" {
			t.Errorf("Location = %q", got)
		}
	})

	// Pre-signing is a local operation, so a dummy endpoint suffices.
	t.Run("private bucket", func(t *testing.T) {
		setCV(t, "cv/"+uuid.NewString()+".pdf")
		rec := httptest.NewRecorder()
		public.CV(rec, httptest.NewRequest(http.MethodGet, "/api/cv", nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		loc := rec.Header().Get("Location")
		if !strings.Contains(loc, prof.CVUrl) || !strings.Contains(loc, "X-Amz-Signature") {
			t.Errorf("Location = %q, want a signed URL for %q", loc, prof.CVUrl)
		}
	})

	t.Run("private bucket without storage", func(t *testing.T) {
		setCV(t, "cv/"+uuid.NewString()+".pdf")
		bare := NewPublic(env.profile, nil, nil, nil, nil, nil, nil, nil)
		rec := httptest.NewRecorder()
		bare.CV(rec, httptest.NewRequest(http.MethodGet, "/api/cv", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestPublicPostNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.public.Post(rec, jsonRequest(t, http.MethodGet, "/api/posts/x", uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.public.Post(rec, jsonRequest(t, http.MethodGet, "/api/posts/x", "not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPublicProjectsServesArray(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.projects.Create(&models.Project{
		Title:       "Probe",
		Description: "visible on the public list",
		TechStack:   []string{"Go"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	t.Cleanup(func() { env.db.Exec("DELETE FROM projects WHERE id = $1", created.ID) })

	rec := httptest.NewRecorder()
	env.public.Projects(rec, jsonRequest(t, http.MethodGet, "/api/projects", "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var list []models.Project
	decodeBody(t, rec, &list)

	found := false
	for _, p := range list {
		if p.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("created project missing from public list")
	}
}

func TestPublicProfileIsNormalized(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.public.Profile(rec, jsonRequest(t, http.MethodGet, "/api/profile", "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var prof models.Profile
	decodeBody(t, rec, &prof)

	if prof.Name == "" {
		t.Error("profile name should never be empty")
	}
	if prof.Availability != models.Available && prof.Availability != models.Unavailable {
		t.Errorf("availability = %q", prof.Availability)
	}
	if prof.Stats == nil || prof.Skills == nil {
		t.Error("profile sections should be backfilled, not null")
	}
}
