// Package api provides the HTTP API server and handlers for the Leaflist application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leaflist/leaflist-server/internal/ratelimit"
	"github.com/leaflist/leaflist-server/internal/store"
)

const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.Keyed
}

// NewServer creates the HTTP server with all routes configured.
// corsOrigins lists the allowed browser origins; an empty slice allows none.
func NewServer(store *store.Store, services *Services, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		store:    store,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
		// 20 auth attempts per minute per client IP, short bursts allowed.
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
	}

	s.setupMiddleware(corsOrigins)

	humaConfig := huma.DefaultConfig("Leaflist API", apiVersion)
	humaConfig.DocsPath = "/api/docs"
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(corsOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(corsOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(AuthRateLimitMiddleware(s.authRateLimiter, s.logger))
}

// registerRoutes registers every operation with the OpenAPI layer.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerEmailRoutes()
	s.registerBookRoutes()
	s.registerBookListRoutes()
	s.registerReviewRoutes()
	s.registerAdminRoutes()
}
