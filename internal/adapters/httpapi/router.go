package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures router wiring. Zero values disable the optional pieces.
type RouterOptions struct {
	// AuthMiddleware guards every route except /healthz and /metrics.
	AuthMiddleware func(http.Handler) http.Handler
	// RequestLogger is typically NewRequestLogger.
	RequestLogger func(http.Handler) http.Handler
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.RequestLogger != nil {
		r.Use(opts.RequestLogger)
	}
	r.Use(middleware.Recoverer)

	// Infra endpoints stay outside authentication.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.CreateMyUser)
			r.Get("/me", s.GetMyUser)
			r.Patch("/me", s.UpdateMyUser)
			r.Get("/search", s.SearchUsers)
			r.Get("/{userId}", s.GetUser)
		})

		r.Route("/ship-assignments", func(r chi.Router) {
			r.Post("/", s.CreateShipAssignment)
			r.Get("/", s.ListPublicShipAssignments)
			r.Get("/mine", s.ListMyShipAssignments)
			r.Get("/{shipAssignmentId}", s.GetShipAssignment)
			r.Patch("/{shipAssignmentId}", s.UpdateShipAssignment)
			r.Delete("/{shipAssignmentId}", s.DeleteShipAssignment)
		})

		r.Route("/land-assignments", func(r chi.Router) {
			r.Post("/", s.CreateLandAssignment)
			r.Get("/", s.ListPublicLandAssignments)
			r.Get("/mine", s.ListMyLandAssignments)
			r.Get("/{landAssignmentId}", s.GetLandAssignment)
			r.Patch("/{landAssignmentId}", s.UpdateLandAssignment)
			r.Delete("/{landAssignmentId}", s.DeleteLandAssignment)
		})

		r.Get("/matches/me", s.FindMyMatches)
		r.Get("/matches/explain", s.ExplainPair)
		r.Get("/release-projection", s.ProjectRelease)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}
