package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medplus/academy-api/internal/domain/user"
	"github.com/medplus/academy-api/internal/pkg/response"
	"github.com/medplus/academy-api/internal/pkg/validator"
)

// Handler handles admin HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates admin handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func targetUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// Dashboard handles GET /admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, dash)
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, users)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin super_admin"`
}

// SetRole handles PUT /admin/users/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := targetUserID(r)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SetRole(r.Context(), id, user.Role(req.Role)); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"message": "role updated"})
}

// Ban handles PUT /admin/users/{id}/ban
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	id, err := targetUserID(r)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.svc.Ban(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"message": "user banned"})
}

// Activate handles PUT /admin/users/{id}/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := targetUserID(r)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.svc.Activate(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"message": "user activated"})
}

// Routes wires admin endpoints. Everything requires admin, role changes
// require super admin.
func (h *Handler) Routes(authMiddleware, adminOnly, superAdminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/dashboard", h.Dashboard)
	r.Get("/users", h.ListUsers)
	r.Put("/users/{id}/ban", h.Ban)
	r.Put("/users/{id}/activate", h.Activate)

	r.Group(func(r chi.Router) {
		r.Use(superAdminOnly)
		r.Put("/users/{id}/role", h.SetRole)
	})

	return r
}
