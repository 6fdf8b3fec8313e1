package mockapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/anayy09/AcademiaFlow/internal/middleware"
)

// APIPrefix is where the versioned routes are mounted.
const APIPrefix = "/api/v1"

// NewRouter wires the backend routes and middleware.
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.NoStore)
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodySize))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(h.store, logger))

			r.Get("/users/profile", h.GetProfile)
			r.Put("/users/profile", h.UpdateProfile)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.ListCourses)
				r.Post("/", h.CreateCourse)
				r.Get("/{id}", h.GetCourse)
				r.Put("/{id}", h.UpdateCourse)
				r.Delete("/{id}", h.DeleteCourse)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", h.ListAssignments)
				r.Post("/", h.CreateAssignment)
				r.Get("/{id}", h.GetAssignment)
				r.Put("/{id}", h.UpdateAssignment)
				r.Delete("/{id}", h.DeleteAssignment)
				r.Patch("/{id}/status", h.UpdateAssignmentStatus)
			})
		})
	})

	return r
}

// NewServer returns a ready handler over a fresh Store.
func NewServer(logger *slog.Logger, opts Options) http.Handler {
	return NewRouter(NewHandler(NewStore(opts.Now), logger, opts), logger)
}
