package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"devfolio/internal/cache"
	"devfolio/internal/models"
	"devfolio/internal/notify"
	"devfolio/internal/storage"
	"devfolio/internal/store"
)

// Public groups the unauthenticated site API: the content the portfolio
// frontend renders plus the contact form. Reads degrade gracefully — a
// storage failure yields the empty shape, never a 500, so the public
// site keeps rendering with whatever it has.
type Public struct {
	profile  *store.ProfileStore
	projects *store.ProjectStore
	posts    *store.PostStore
	services *store.ServiceStore
	messages *store.MessageStore
	cache    *cache.ResponseCache
	notifier *notify.Notifier
	storage  *storage.Store
}

// NewPublic creates the public handler group. cache, notifier and
// storage may be nil; caching, contact notifications and CV downloads
// are then disabled.
func NewPublic(
	profile *store.ProfileStore,
	projects *store.ProjectStore,
	posts *store.PostStore,
	services *store.ServiceStore,
	messages *store.MessageStore,
	respCache *cache.ResponseCache,
	notifier *notify.Notifier,
	st *storage.Store,
) *Public {
	return &Public{
		profile:  profile,
		projects: projects,
		posts:    posts,
		services: services,
		messages: messages,
		cache:    respCache,
		notifier: notifier,
		storage:  st,
	}
}

// serveCached writes the cached payload for key if present. The load
// function produces the value on a miss; loader errors fall back to
// the provided empty shape.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string, load func() (any, error), empty any) {
	ctx := r.Context()

	if p.cache != nil {
		if payload, ok := p.cache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	v, err := load()
	if err != nil {
		slog.Error("public read failed", "key", key, "error", err)
		respondJSON(w, http.StatusOK, empty)
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("public marshal failed", "key", key, "error", err)
		respondJSON(w, http.StatusOK, empty)
		return
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Profile serves the normalized site-owner profile.
func (p *Public) Profile(w http.ResponseWriter, r *http.Request) {
	def := models.DefaultProfile()
	p.serveCached(w, r, cache.KeyProfile, func() (any, error) {
		prof, err := p.profile.Get()
		if err != nil {
			return nil, err
		}
		return prof, nil
	}, &def)
}

// Projects serves all projects, newest first.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KeyProjects, func() (any, error) {
		list, err := p.projects.List()
		if err != nil {
			return nil, err
		}
		return list, nil
	}, []models.Project{})
}

// Posts serves all blog posts, newest first.
func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KeyPosts, func() (any, error) {
		list, err := p.posts.List()
		if err != nil {
			return nil, err
		}
		return list, nil
	}, []models.Post{})
}

// Post serves a single blog post by id.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := p.posts.FindByID(id)
	if err != nil {
		slog.Error("load post", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// Services serves the offered services in their manual order.
func (p *Public) Services(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.KeyServices, func() (any, error) {
		list, err := p.services.List()
		if err != nil {
			return nil, err
		}
		return list, nil
	}, []models.Service{})
}

// How long a pre-signed CV download link stays valid. Long enough for a
// slow download, short enough that a shared link goes stale.
const cvLinkTTL = 15 * time.Minute

// CV redirects to the downloadable CV. Uploaded CVs live in the private
// bucket under the key stored in the profile and are served through a
// short-lived pre-signed URL; an externally hosted CV is redirected to
// as-is.
func (p *Public) CV(w http.ResponseWriter, r *http.Request) {
	prof, err := p.profile.Get()
	if err != nil {
		slog.Error("load profile for cv", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	cv := strings.TrimSpace(prof.CVUrl)
	switch {
	case cv == "":
		respondError(w, http.StatusNotFound, "no CV available")
	case strings.HasPrefix(cv, storage.KindCV+"/"):
		if p.storage == nil {
			respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
			return
		}
		url, err := p.storage.PresignedURL(r.Context(), cv, cvLinkTTL)
		if err != nil {
			slog.Error("presign cv", "key", cv, "error", err)
			respondError(w, http.StatusInternalServerError, "could not generate download link")
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	default:
		http.Redirect(w, r, cv, http.StatusFound)
	}
}

// contactRequest is the contact-form submission body.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// contactResponse is the persisted message plus the delivery outcome.
// A failed owner notification never implies the save failed: the
// message is stored either way, and the warning says only the email
// part went wrong.
type contactResponse struct {
	*models.Message
	Notified bool   `json:"notified"`
	Warning  string `json:"warning,omitempty"`
}

// Contact accepts a contact-form submission. The message is persisted
// first; the owner notification is attempted afterwards on a detached
// deadline, and its failure is reported in the response without
// affecting the 201.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var fe fieldErrors
	fe.require("name", req.Name)
	fe.require("email", req.Email)
	fe.require("message", req.Message)
	fe.email("email", req.Email)
	fe.maxLen("name", req.Name, maxNameLen)
	fe.maxLen("email", req.Email, maxEmailLen)
	fe.maxLen("message", req.Message, maxMessageLen)
	if err := fe.err(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := p.messages.Create(&models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		slog.Error("store contact message", "error", err)
		respondError(w, http.StatusInternalServerError, "could not store message")
		return
	}

	resp := contactResponse{Message: msg}
	if p.notifier != nil && p.notifier.Enabled() {
		// Detached from the request context: a visitor navigating away
		// must not cancel a send already owed to the owner.
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := p.notifier.ContactMessage(ctx, msg); err != nil {
			slog.Error("contact notification failed", "message_id", msg.ID, "error", err)
			resp.Warning = "Your message was saved, but the notification email could not be sent."
		} else {
			resp.Notified = true
		}
	}

	respondJSON(w, http.StatusCreated, resp)
}
