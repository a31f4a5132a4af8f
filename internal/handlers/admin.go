package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"devfolio/internal/cache"
	"devfolio/internal/models"
	"devfolio/internal/store"
)

// Admin groups the authenticated console API: content CRUD, message
// management, and the profile editor. Unlike the public handlers, admin
// reads surface storage failures as 500s — the operator needs to know.
type Admin struct {
	profile  *store.ProfileStore
	projects *store.ProjectStore
	posts    *store.PostStore
	services *store.ServiceStore
	messages *store.MessageStore
	cache    *cache.ResponseCache
}

// NewAdmin creates the admin handler group. cache may be nil.
func NewAdmin(
	profile *store.ProfileStore,
	projects *store.ProjectStore,
	posts *store.PostStore,
	services *store.ServiceStore,
	messages *store.MessageStore,
	respCache *cache.ResponseCache,
) *Admin {
	return &Admin{
		profile:  profile,
		projects: projects,
		posts:    posts,
		services: services,
		messages: messages,
		cache:    respCache,
	}
}

// purge invalidates cached public responses after a mutation.
func (a *Admin) purge(r *http.Request, keys ...string) {
	if a.cache != nil {
		a.cache.Purge(r.Context(), keys...)
	}
}

// --- Projects ---

func (a *Admin) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := a.projects.List()
	if err != nil {
		slog.Error("list projects", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load projects")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	TechStack   []string `json:"techStack"`
	GithubLink  *string  `json:"githubLink"`
	DemoLink    *string  `json:"demoLink"`
}

func (pr *projectRequest) validate() error {
	var fe fieldErrors
	fe.require("title", pr.Title)
	fe.require("description", pr.Description)
	fe.maxLen("title", pr.Title, maxTitleLen)
	fe.maxLen("description", pr.Description, maxMessageLen)
	fe.maxLen("image", pr.Image, maxURLLen)
	if pr.GithubLink != nil {
		fe.maxLen("githubLink", *pr.GithubLink, maxURLLen)
	}
	if pr.DemoLink != nil {
		fe.maxLen("demoLink", *pr.DemoLink, maxURLLen)
	}
	return fe.err()
}

func (a *Admin) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.projects.Create(&models.Project{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		TechStack:   req.TechStack,
		GithubLink:  req.GithubLink,
		DemoLink:    req.DemoLink,
	})
	if err != nil {
		slog.Error("create project", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create project")
		return
	}

	a.purge(r, cache.KeyProjects)
	respondJSON(w, http.StatusCreated, created)
}

func (a *Admin) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.ProjectPatch
	if err := decodeJSON(r, w, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		respondError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	if err := a.projects.Update(id, patch); err != nil {
		slog.Error("update project", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update project")
		return
	}

	updated, err := a.projects.FindByID(id)
	if err != nil {
		slog.Error("reload project", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load project")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	a.purge(r, cache.KeyProjects)
	respondJSON(w, http.StatusOK, updated)
}

func (a *Admin) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.projects.Delete(id); err != nil {
		slog.Error("delete project", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete project")
		return
	}

	a.purge(r, cache.KeyProjects)
	w.WriteHeader(http.StatusNoContent)
}

// --- Posts ---

func (a *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := a.posts.List()
	if err != nil {
		slog.Error("list posts", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load posts")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type postRequest struct {
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content"`
	CoverImage string `json:"coverImage"`
	Author     string `json:"author"`
}

func (pr *postRequest) validate() error {
	var fe fieldErrors
	fe.require("title", pr.Title)
	fe.require("content", pr.Content)
	fe.maxLen("title", pr.Title, maxTitleLen)
	fe.maxLen("excerpt", pr.Excerpt, maxExcerptLen)
	fe.maxLen("content", pr.Content, maxContentLen)
	fe.maxLen("coverImage", pr.CoverImage, maxURLLen)
	fe.maxLen("author", pr.Author, maxNameLen)
	return fe.err()
}

func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.posts.Create(&models.Post{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Author:     req.Author,
	})
	if err != nil {
		slog.Error("create post", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create post")
		return
	}

	a.purge(r, cache.KeyPosts)
	respondJSON(w, http.StatusCreated, created)
}

func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.PostPatch
	if err := decodeJSON(r, w, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		respondError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	if err := a.posts.Update(id, patch); err != nil {
		slog.Error("update post", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update post")
		return
	}

	updated, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("reload post", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load post")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	a.purge(r, cache.KeyPosts)
	respondJSON(w, http.StatusOK, updated)
}

func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(id); err != nil {
		slog.Error("delete post", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete post")
		return
	}

	a.purge(r, cache.KeyPosts)
	w.WriteHeader(http.StatusNoContent)
}

// --- Services ---

func (a *Admin) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := a.services.List()
	if err != nil {
		slog.Error("list services", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load services")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type serviceRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        models.Icon `json:"icon"`
	Featured    bool        `json:"featured"`
}

func (sr *serviceRequest) validate() error {
	var fe fieldErrors
	fe.require("title", sr.Title)
	fe.require("description", sr.Description)
	fe.maxLen("title", sr.Title, maxTitleLen)
	fe.maxLen("description", sr.Description, maxMessageLen)
	if sr.Icon != "" && !sr.Icon.Valid() {
		fe = append(fe, "icon is not a supported icon name")
	}
	return fe.err()
}

func (a *Admin) CreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Icon == "" {
		req.Icon = models.IconCode2
	}

	created, err := a.services.Create(&models.Service{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Featured:    req.Featured,
	})
	if err != nil {
		slog.Error("create service", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create service")
		return
	}

	a.purge(r, cache.KeyServices)
	respondJSON(w, http.StatusCreated, created)
}

func (a *Admin) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.ServicePatch
	if err := decodeJSON(r, w, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		respondError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	if patch.Icon != nil && !patch.Icon.Valid() {
		respondError(w, http.StatusBadRequest, "icon is not a supported icon name")
		return
	}

	if err := a.services.Update(id, patch); err != nil {
		slog.Error("update service", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update service")
		return
	}

	updated, err := a.services.FindByID(id)
	if err != nil {
		slog.Error("reload service", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load service")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "service not found")
		return
	}

	a.purge(r, cache.KeyServices)
	respondJSON(w, http.StatusOK, updated)
}

func (a *Admin) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.services.Delete(id); err != nil {
		slog.Error("delete service", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete service")
		return
	}

	a.purge(r, cache.KeyServices)
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// ReorderServices applies a full manual ordering. The id list must name
// every service exactly once; the store rejects partial orders.
func (a *Admin) ReorderServices(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids is required")
		return
	}

	if err := a.services.Reorder(req.IDs); err != nil {
		slog.Error("reorder services", "error", err)
		respondError(w, http.StatusBadRequest, "could not apply ordering")
		return
	}

	list, err := a.services.List()
	if err != nil {
		slog.Error("list services", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load services")
		return
	}

	a.purge(r, cache.KeyServices)
	respondJSON(w, http.StatusOK, list)
}

// --- Messages ---

func (a *Admin) ListMessages(w http.ResponseWriter, r *http.Request) {
	list, err := a.messages.List()
	if err != nil {
		slog.Error("list messages", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load messages")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

// MarkMessageRead flips the read flag. Body is optional; the default is
// marking as read.
func (a *Admin) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	read := true
	var req markReadRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, w, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Read != nil {
			read = *req.Read
		}
	}

	if err := a.messages.SetRead(id, read); err != nil {
		slog.Error("mark message read", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not update message")
		return
	}

	msg, err := a.messages.FindByID(id)
	if err != nil {
		slog.Error("reload message", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not load message")
		return
	}
	if msg == nil {
		respondError(w, http.StatusNotFound, "message not found")
		return
	}

	respondJSON(w, http.StatusOK, msg)
}

func (a *Admin) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.messages.Delete(id); err != nil {
		slog.Error("delete message", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete message")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount serves the unread-message badge for the console header.
func (a *Admin) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := a.messages.CountUnread()
	if err != nil {
		slog.Error("count unread", "error", err)
		respondError(w, http.StatusInternalServerError, "could not count messages")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": n})
}

// --- Profile ---

func (a *Admin) GetProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := a.profile.Get()
	if err != nil {
		slog.Error("load profile", "error", err)
		respondError(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	respondJSON(w, http.StatusOK, prof)
}

// SaveProfile replaces the profile wholesale. The payload is validated
// and normalized before it reaches the database, so malformed history
// dates or out-of-range skill levels never persist.
func (a *Admin) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var prof models.Profile
	if err := decodeJSON(r, w, &prof); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := prof.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.profile.Save(&prof); err != nil {
		slog.Error("save profile", "error", err)
		respondError(w, http.StatusInternalServerError, "could not save profile")
		return
	}

	a.purge(r, cache.KeyProfile)
	respondJSON(w, http.StatusOK, &prof)
}
