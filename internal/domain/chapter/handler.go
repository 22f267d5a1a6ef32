package chapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medplus/academy-api/internal/pkg/response"
	"github.com/medplus/academy-api/internal/pkg/validator"
)

type Handler struct {
	repo *Repository
}

type chapterRequest struct {
	CourseID int64  `json:"course_id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,min=2,max=200"`
	Type     string `json:"type" validate:"required,section"`
	Position int    `json:"position" validate:"gte=0"`
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListByCourse handles GET /chapters/course/{id}
func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	chapters, err := h.repo.ListByCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.NotFound(w, "Course not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, chapters)
}

// Create handles POST /chapters
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req chapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ch := &Chapter{CourseID: req.CourseID, Title: req.Title, Type: req.Type, Position: req.Position}
	if err := h.repo.Create(r.Context(), ch); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.BadRequest(w, "Unknown course")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, ch)
}

// Update handles PUT /chapters/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid chapter id")
		return
	}

	var req chapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ch := &Chapter{ID: id, CourseID: req.CourseID, Title: req.Title, Type: req.Type, Position: req.Position}
	if err := h.repo.Update(r.Context(), ch); err != nil {
		if errors.Is(err, ErrChapterNotFound) {
			response.NotFound(w, "Chapter not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ch)
}

// Delete handles DELETE /chapters/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid chapter id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrChapterNotFound) {
			response.NotFound(w, "Chapter not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/course/{id}", h.ListByCourse)
	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
