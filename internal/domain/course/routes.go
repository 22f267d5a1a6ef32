package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns course router
func (h *Handler) Routes(authMiddleware, optionalAuth, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/", h.List)
	r.Get("/latest", h.Latest)
	r.Get("/instructor/{id}", h.ByInstructor)
	r.With(optionalAuth).Get("/{id}/overview", h.Overview)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/my", h.MyCourses)
		r.Get("/{id}/content", h.Content)
		r.Post("/{id}/enroll", h.Enroll)
	})

	// Admin
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/poster", h.UploadPoster)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
