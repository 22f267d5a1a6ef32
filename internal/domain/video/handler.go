package video

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/middleware"
	"github.com/medplus/academy-api/internal/pkg/response"
)

const maxUploadSize = 2 << 30 // 2 GiB

var allowedUploadTypes = map[string]bool{
	"video/mp4":       true,
	"video/mpeg":      true,
	"video/quicktime": true,
}

// Handler handles video HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates video handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func isAdmin(r *http.Request) bool {
	role := middleware.GetRole(r.Context())
	return role == "admin" || role == "super_admin"
}

// Upload handles POST /videos. Multipart form: video file, chapter_id, title.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		response.BadRequest(w, "invalid multipart form or file too large")
		return
	}

	chapterID, err := strconv.ParseInt(r.FormValue("chapter_id"), 10, 64)
	if err != nil || chapterID <= 0 {
		response.BadRequest(w, "chapter_id is required")
		return
	}
	title := r.FormValue("title")
	if len(title) < 2 {
		response.BadRequest(w, "title is required")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		response.BadRequest(w, "video file is required")
		return
	}
	defer file.Close()

	if !allowedUploadTypes[header.Header.Get("Content-Type")] {
		response.BadRequest(w, "only mp4, mpeg and mov uploads are accepted")
		return
	}

	// The transcoder works on a file path, spool the upload to disk first.
	tmp, err := os.CreateTemp("", "upload-*.video")
	if err != nil {
		response.InternalError(w)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		response.InternalError(w)
		return
	}

	v, err := h.svc.Upload(r.Context(), chapterID, title, tmp.Name())
	if err != nil {
		if errors.Is(err, ErrChapterNotFound) {
			response.BadRequest(w, "Unknown chapter")
			return
		}
		log.Error().Err(err).Int64("chapter_id", chapterID).Msg("video upload failed")
		response.InternalError(w)
		return
	}

	response.Created(w, v)
}

// Playback handles GET /videos/{id}
func (h *Handler) Playback(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid video id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	playback, err := h.svc.Playback(r.Context(), userID, id, isAdmin(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			response.NotFound(w, "Video not found")
		case errors.Is(err, ErrNotEnrolled):
			response.Forbidden(w, "Course not purchased")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, playback)
}

// Key handles GET /videos/key/{identifier}. Returns the raw 16 key bytes
// the HLS player needs to decrypt segments.
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	userID := middleware.GetUserID(r.Context())

	key, err := h.svc.Key(r.Context(), userID, identifier, isAdmin(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			response.NotFound(w, "Video not found")
		case errors.Is(err, ErrNotEnrolled):
			response.Forbidden(w, "Course not purchased")
		default:
			response.InternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(key)))
	w.WriteHeader(http.StatusOK)
	w.Write(key)
}

// Segment handles GET /videos/segments/{identifier}/{name}. Redirects the
// player to a presigned URL; content is AES encrypted.
func (h *Handler) Segment(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	name := chi.URLParam(r, "name")

	url, err := h.svc.SegmentURL(r.Context(), identifier, name)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			response.NotFound(w, "Video not found")
			return
		}
		response.InternalError(w)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// Finish handles POST /videos/{id}/finish
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid video id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.svc.MarkFinished(r.Context(), userID, id, isAdmin(r)); err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			response.NotFound(w, "Video not found")
		case errors.Is(err, ErrNotEnrolled):
			response.Forbidden(w, "Course not purchased")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"message": "video marked as finished"})
}

// ListByChapter handles GET /videos/chapter/{id}
func (h *Handler) ListByChapter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid chapter id")
		return
	}

	videos, err := h.svc.ListByChapter(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrChapterNotFound) {
			response.NotFound(w, "Chapter not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, videos)
}

// Update handles PUT /videos/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid video id")
		return
	}

	var req struct {
		ChapterID int64  `json:"chapter_id"`
		Title     string `json:"title"`
	}
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if req.ChapterID <= 0 || len(req.Title) < 2 {
		response.BadRequest(w, "chapter_id and title are required")
		return
	}

	v, err := h.svc.Update(r.Context(), id, req.ChapterID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			response.NotFound(w, "Video not found")
		case errors.Is(err, ErrChapterNotFound):
			response.BadRequest(w, "Unknown chapter")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, v)
}

// Delete handles DELETE /videos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid video id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			response.NotFound(w, "Video not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Segment fetches come from the HLS player without auth headers. The
	// payload is AES encrypted and URLs expire.
	r.Get("/segments/{identifier}/{name}", h.Segment)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/{id}", h.Playback)
		r.Get("/key/{identifier}", h.Key)
		r.Post("/{id}/finish", h.Finish)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Post("/", h.Upload)
		r.Get("/chapter/{id}", h.ListByChapter)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
