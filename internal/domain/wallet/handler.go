package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medplus/academy-api/internal/domain/enrollment"
	"github.com/medplus/academy-api/internal/middleware"
	"github.com/medplus/academy-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

type depositRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetWallet returns the caller's balance and ledger page
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, "unauthorized")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	summary, total, err := h.svc.GetSummary(r.Context(), userID, page, limit)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, "account not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.WithMeta(w, summary, response.NewMeta(total, page, limit))
}

// Deposit credits another user's wallet. Admin only.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		response.BadRequest(w, "invalid user id")
		return
	}

	var req depositRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.svc.Deposit(r.Context(), userID, req.Amount, req.Description); err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, enrollment.ErrInvalidAmount):
			response.BadRequest(w, "amount must be greater than zero")
		case errors.Is(err, enrollment.ErrAccountNotFound):
			response.NotFound(w, "account not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"message": "deposit applied"})
}

func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.GetWallet)
	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/deposit/{userID}", h.Deposit)
	})
	return r
}
