package instructor

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

type instructorRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Title  string `json:"title" validate:"required,min=2,max=150"`
	Bio    string `json:"bio" validate:"omitempty,max=2000"`
	Avatar string `json:"avatar" validate:"omitempty,max=500"`
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.repo.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, instructors)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid instructor id")
		return
	}

	ins, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Instructor not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ins)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req instructorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ins := &Instructor{Name: req.Name, Title: req.Title, Bio: req.Bio, Avatar: req.Avatar}
	if err := h.repo.Create(r.Context(), ins); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, ins)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid instructor id")
		return
	}

	var req instructorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ins := &Instructor{ID: id, Name: req.Name, Title: req.Title, Bio: req.Bio, Avatar: req.Avatar}
	if err := h.repo.Update(r.Context(), ins); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Instructor not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ins)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid instructor id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Instructor not found")
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
	r.Get("/{id}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
