package comment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medplus/academy-api/internal/middleware"
	"github.com/medplus/academy-api/internal/pkg/response"
	"github.com/medplus/academy-api/internal/pkg/validator"
)

// Handler handles comment HTTP requests
type Handler struct {
	svc *Service
}

type createCommentRequest struct {
	VideoID int64  `json:"video_id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type contentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// NewHandler creates comment handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func isAdmin(r *http.Request) bool {
	role := middleware.GetRole(r.Context())
	return role == "admin" || role == "super_admin"
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

// Create handles POST /comments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())

	c, err := h.svc.Create(r.Context(), userID, req.VideoID, req.Content)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			response.NotFound(w, "Video not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, c)
}

// ListByVideo handles GET /comments/video/{id}
func (h *Handler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid video id")
		return
	}
	page, limit := pageParams(r)

	comments, total, err := h.svc.ListByVideo(r.Context(), id, page, limit)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			response.NotFound(w, "Video not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.WithMeta(w, comments, response.NewMeta(total, page, limit))
}

// Update handles PUT /comments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid comment id")
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())

	c, err := h.svc.Update(r.Context(), userID, id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			response.NotFound(w, "Comment not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "You can only edit your own comments")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, c)
}

// Delete handles DELETE /comments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid comment id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.svc.Delete(r.Context(), userID, id, isAdmin(r)); err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			response.NotFound(w, "Comment not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "You can only delete your own comments")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// Reply handles POST /comments/{id}/replies
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid comment id")
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())

	reply, err := h.svc.Reply(r.Context(), userID, id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			response.NotFound(w, "Comment not found")
		case errors.Is(err, ErrNotApproved):
			response.Conflict(w, "Comment is awaiting moderation")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, reply)
}

// Pending handles GET /comments/pending (moderation queue)
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	comments, total, err := h.svc.Pending(r.Context(), page, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, comments, response.NewMeta(total, page, limit))
}

// Approve handles POST /comments/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "invalid comment id")
		return
	}

	if err := h.svc.Approve(r.Context(), id); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			response.NotFound(w, "Comment not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"message": "comment approved"})
}

func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/video/{id}", h.ListByVideo)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/replies", h.Reply)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/pending", h.Pending)
		r.Post("/{id}/approve", h.Approve)
	})

	return r
}
