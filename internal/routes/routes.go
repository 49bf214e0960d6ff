package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/timecapsule-app/timecapsule-backend/internal/handlers"
	"github.com/timecapsule-app/timecapsule-backend/internal/middleware"
)

// Handlers bundles everything SetupRoutes wires.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Journal *handlers.JournalHandler
	Entry   *handlers.EntryHandler
	Upload  *handlers.UploadHandler
	Gate    *middleware.Gate
}

func SetupRoutes(r *chi.Mux, h Handlers) {
	// Auth routes
	r.Post("/users/register", h.Auth.Register)
	r.Post("/users/login", h.Auth.Login)
	r.Get("/users/logout", h.Auth.Logout)
	r.Post("/users/verifyEmail", h.Auth.VerifyEmail)
	r.Get("/users/me", h.Auth.Me)

	// Entry routes (cookie auth)
	r.Post("/entries", h.Gate.Wrap(h.Entry.Create))
	r.Get("/entries", h.Gate.Wrap(h.Entry.List))
	r.Get("/entries/{id}", h.Gate.Wrap(h.Entry.Get))
	r.Patch("/entries/{id}", h.Gate.Wrap(h.Entry.Update))
	r.Delete("/entries/{id}", h.Gate.Wrap(h.Entry.Delete))

	// Journal routes (cookie auth)
	r.Post("/journal", h.Gate.Wrap(h.Journal.Create))
	r.Get("/journal", h.Gate.Wrap(h.Journal.List))
	r.Get("/journal/{id}", h.Gate.Wrap(h.Journal.Get))
	r.Patch("/journal/{id}", h.Gate.Wrap(h.Journal.Update))
	r.Delete("/journal/{id}", h.Gate.Wrap(h.Journal.Delete))

	// Image upload (cookie auth)
	r.Post("/api/upload", h.Gate.Wrap(h.Upload.Upload))

	// API documentation
	r.Get("/api-docs", handlers.APIDocs)
	r.Get("/openapi", handlers.OpenAPI)
}
