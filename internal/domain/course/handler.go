package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/middleware"
	"github.com/medplus/academy-api/internal/pkg/response"
	"github.com/medplus/academy-api/internal/pkg/validator"
)

const maxPosterSize = 10 << 20 // 10 MiB

// Handler handles course HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates course handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func courseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
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

// List handles GET /courses
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	items, total, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Latest handles GET /courses/latest
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Latest(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

// ByInstructor handles GET /courses/instructor/{id}
func (h *Handler) ByInstructor(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid instructor id")
		return
	}
	page, limit := pageParams(r)

	items, total, err := h.svc.ListByInstructor(r.Context(), id, page, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Overview handles GET /courses/{id}/overview. Works for guests, the
// enrolled flag is only meaningful with a token.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	overview, err := h.svc.Overview(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.NotFound(w, "Course not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, overview)
}

// Content handles GET /courses/{id}/content
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	content, err := h.svc.Content(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			response.NotFound(w, "Course not found")
		case errors.Is(err, ErrNotEnrolled):
			response.Forbidden(w, "Course not purchased")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, content)
}

// Enroll handles POST /courses/{id}/enroll
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.svc.Enroll(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, enrollment.ErrAlreadyEnrolled):
			response.Conflict(w, "Course already purchased")
		case errors.Is(err, enrollment.ErrItemNotFound):
			response.NotFound(w, "Course not found")
		case errors.Is(err, enrollment.ErrAccountNotFound):
			response.NotFound(w, "Account not found")
		case errors.Is(err, enrollment.ErrInsufficientFunds):
			response.UnprocessableEntity(w, "INSUFFICIENT_FUNDS", "Insufficient wallet balance")
		default:
			log.Error().Err(err).Int64("user_id", userID).Int64("course_id", id).Msg("course purchase failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"message": "course purchased"})
}

// MyCourses handles GET /courses/my
func (h *Handler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	courses, err := h.svc.MyCourses(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, courses)
}

// Create handles POST /courses
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpecialtyNotFound):
			response.BadRequest(w, "Unknown specialty")
		case errors.Is(err, ErrInstructorNotFound):
			response.BadRequest(w, "Unknown instructor")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, c)
}

// Update handles PUT /courses/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			response.NotFound(w, "Course not found")
		case errors.Is(err, ErrSpecialtyNotFound):
			response.BadRequest(w, "Unknown specialty")
		case errors.Is(err, ErrInstructorNotFound):
			response.BadRequest(w, "Unknown instructor")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, c)
}

// UploadPoster handles POST /courses/{id}/poster
func (h *Handler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	if err := r.ParseMultipartForm(maxPosterSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("poster")
	if err != nil {
		response.BadRequest(w, "poster file is required")
		return
	}
	defer file.Close()

	url, err := h.svc.UploadPoster(r.Context(), id, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			response.NotFound(w, "Course not found")
		case errors.Is(err, ErrInvalidPoster):
			response.BadRequest(w, "Unsupported or corrupt image")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"poster": url})
}

// Delete handles DELETE /courses/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		response.BadRequest(w, "invalid course id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.NotFound(w, "Course not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}
