package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"devfolio/internal/imaging"
	"devfolio/internal/storage"
)

// Upload size caps. Images are probed and rejected before any byte
// reaches object storage; the CV only needs a PDF magic check.
const (
	maxImageBytes = 10 << 20
	maxCVBytes    = 20 << 20
)

// Media handles admin uploads: project screenshots, blog cover images,
// and the downloadable CV.
type Media struct {
	storage *storage.Store
}

// NewMedia creates the media handler group. storage may be nil when no
// object store is configured; uploads then return 503.
func NewMedia(st *storage.Store) *Media {
	return &Media{storage: st}
}

// Upload accepts a multipart upload. The "kind" form field selects the
// validation path: "image" (default) probes the file as an image, "cv"
// requires a PDF. Responds with the serving URL and the object key; for
// the CV the profile stores the key, and /api/cv pre-signs it on demand.
func (m *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	// Cap the whole request before the multipart form is parsed; the
	// tighter per-kind limit is enforced on the file itself below.
	r.Body = http.MaxBytesReader(w, r.Body, maxCVBytes+4096)

	kind := storage.KindImage
	limit := int64(maxImageBytes)
	if r.FormValue("kind") == "cv" {
		kind = storage.KindCV
		limit = maxCVBytes
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		slog.Error("read upload", "error", err)
		respondError(w, http.StatusInternalServerError, "could not read upload")
		return
	}
	if int64(len(data)) > limit {
		respondError(w, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}

	var contentType string
	switch kind {
	case storage.KindCV:
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			respondError(w, http.StatusBadRequest, "CV must be a PDF file")
			return
		}
		contentType = "application/pdf"
	default:
		info, err := imaging.Probe(data)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		contentType = info.ContentType
	}

	key := storage.NewKey(kind, header.Filename)

	// Images go to the public bucket and are served directly. The CV
	// lands in the private bucket; /api/cv serves it via pre-signed
	// URLs, so the stored profile URL is the stable site path.
	var url string
	if kind == storage.KindCV {
		err = m.storage.UploadPrivate(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
		url = "/api/cv"
	} else {
		url, err = m.storage.UploadPublic(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
	}
	if err != nil {
		slog.Error("upload media", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "could not store file")
		return
	}

	slog.Info("media uploaded", "key", key, "bytes", len(data), "type", contentType)
	respondJSON(w, http.StatusCreated, map[string]string{
		"url": url,
		"key": key,
	})
}

// Delete removes a stored object by its public URL. Foreign URLs are
// rejected so the endpoint can only touch objects this store owns.
func (m *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	key, ok := m.storage.KeyFromURL(req.URL)
	if !ok {
		respondError(w, http.StatusBadRequest, "url does not belong to this site's storage")
		return
	}

	if err := m.storage.Delete(r.Context(), key); err != nil {
		slog.Error("delete media", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
