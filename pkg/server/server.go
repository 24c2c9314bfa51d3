package server

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adfharrison1/go-catalog/pkg/api"
	"github.com/adfharrison1/go-catalog/pkg/catalog"
	"github.com/adfharrison1/go-catalog/pkg/metrics"
)

// Server holds references to the catalog, router, etc.
type Server struct {
	router         *mux.Router
	catalog        *catalog.Catalog
	corsOrigins    []string
	metricsEnabled bool
	maxUploadBytes int64
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithCORSOrigins sets the allowed CORS origins. "*" allows any origin.
func WithCORSOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithMetrics toggles the /metrics endpoint and request metrics
func WithMetrics(enabled bool) ServerOption {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// WithMaxUploadBytes limits the size of uploaded book files
func WithMaxUploadBytes(n int64) ServerOption {
	return func(s *Server) {
		s.maxUploadBytes = n
	}
}

// NewServer creates a new instance of Server.
func NewServer(c *catalog.Catalog, opts ...ServerOption) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		catalog:        c,
		corsOrigins:    []string{"*"},
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	handler := api.NewHandler(c, api.WithMaxUploadBytes(s.maxUploadBytes))
	handler.RegisterRoutes(s.router)

	if s.metricsEnabled {
		s.router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}

	s.router.Use(requestIDMiddleware)
	s.router.Use(requestLoggerMiddleware)
	if s.metricsEnabled {
		s.router.Use(metricsMiddleware)
	}

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "No route found for "+r.URL.Path)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: Method %s not allowed for %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return s
}

// Router exposes the routes wrapped in the CORS policy. Preflight requests are
// answered before routing.
func (s *Server) Router() http.Handler {
	return corsMiddleware(s.router, s.corsOrigins)
}
