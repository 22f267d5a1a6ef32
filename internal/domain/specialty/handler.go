package specialty

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

type specialtyRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.repo.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, specialties)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req specialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	s := &Specialty{Name: req.Name}
	if err := h.repo.Create(r.Context(), s); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			response.Conflict(w, "Specialty already exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, s)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid specialty id")
		return
	}

	var req specialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	s := &Specialty{ID: id, Name: req.Name}
	if err := h.repo.Update(r.Context(), s); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Specialty not found")
		case errors.Is(err, ErrAlreadyExists):
			response.Conflict(w, "Specialty already exists")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, s)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid specialty id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Specialty not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
