package workshop

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/middleware"
	"github.com/medplus/academy-api/internal/pkg/response"
	"github.com/medplus/academy-api/internal/pkg/validator"
)

const maxPosterSize = 10 << 20 // 10 MiB

type workshopRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Price       int64  `json:"price" validate:"gte=0"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime   string `json:"event_time" validate:"omitempty,datetime=15:04"`
	Location    string `json:"location" validate:"max=255"`
}

func (req *workshopRequest) toWorkshop() *Workshop {
	date, _ := time.Parse("2006-01-02", req.EventDate)
	return &Workshop{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		EventDate:   date,
		EventTime:   sql.NullString{String: req.EventTime, Valid: req.EventTime != ""},
		Location:    req.Location,
	}
}

// Handler handles workshop HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates workshop handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func workshopID(r *http.Request) (int64, error) {
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

// List handles GET /workshops
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	items, total, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Latest handles GET /workshops/latest
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Latest(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

// Get handles GET /workshops/{id}. The registered flag is only
// meaningful with a token.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		response.BadRequest(w, "invalid workshop id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	ws, err := h.svc.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			response.NotFound(w, "Workshop not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ws)
}

// Register handles POST /workshops/{id}/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		response.BadRequest(w, "invalid workshop id")
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.svc.Register(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, enrollment.ErrAlreadyEnrolled):
			response.Conflict(w, "Already registered for this workshop")
		case errors.Is(err, enrollment.ErrItemNotFound):
			response.NotFound(w, "Workshop not found")
		case errors.Is(err, enrollment.ErrAccountNotFound):
			response.NotFound(w, "Account not found")
		case errors.Is(err, enrollment.ErrInsufficientFunds):
			response.UnprocessableEntity(w, "INSUFFICIENT_FUNDS", "Insufficient wallet balance")
		default:
			log.Error().Err(err).Int64("user_id", userID).Int64("workshop_id", id).Msg("workshop registration failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"message": "workshop registered"})
}

// MyWorkshops handles GET /workshops/my
func (h *Handler) MyWorkshops(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.svc.MyWorkshops(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

// Registrations handles GET /workshops/{id}/registrations
func (h *Handler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		response.BadRequest(w, "invalid workshop id")
		return
	}

	items, err := h.svc.Registrations(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			response.NotFound(w, "Workshop not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

// Create handles POST /workshops
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req workshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ws, err := h.svc.Create(r.Context(), req.toWorkshop())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, ws)
}

// Update handles PUT /workshops/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		response.BadRequest(w, "invalid workshop id")
		return
	}

	var req workshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ws := req.toWorkshop()
	ws.ID = id

	updated, err := h.svc.Update(r.Context(), ws)
	if err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			response.NotFound(w, "Workshop not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, updated)
}

// UploadPoster handles POST /workshops/{id}/poster
func (h *Handler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		response.BadRequest(w, "invalid workshop id")
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
		case errors.Is(err, ErrWorkshopNotFound):
			response.NotFound(w, "Workshop not found")
		case errors.Is(err, ErrInvalidPoster):
			response.BadRequest(w, "Unsupported or corrupt image")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"poster": url})
}

// Delete handles DELETE /workshops/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		response.BadRequest(w, "invalid workshop id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			response.NotFound(w, "Workshop not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Routes wires workshop endpoints
func (h *Handler) Routes(authMiddleware, optionalAuth, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/latest", h.Latest)
	r.With(optionalAuth).Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/my", h.MyWorkshops)
		r.Post("/{id}/register", h.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/poster", h.UploadPoster)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/registrations", h.Registrations)
	})

	return r
}
