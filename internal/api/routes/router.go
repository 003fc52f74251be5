package routes

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spinecare/fracture-dashboard/internal/api/handlers"
	"github.com/spinecare/fracture-dashboard/internal/api/middleware"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	dashboardHandler *handlers.DashboardHandler
	authHandler      *handlers.AuthHandler

	sessions       middleware.SessionValidator
	cookieName     string
	allowedOrigins []string

	metrics *observability.Metrics
	logger  zerolog.Logger
}

// Options carries the cross-cutting settings of the router
type Options struct {
	Sessions       middleware.SessionValidator
	CookieName     string
	AllowedOrigins []string
	Metrics        *observability.Metrics
	Logger         zerolog.Logger
}

// NewRouter creates a new router
func NewRouter(dashboardHandler *handlers.DashboardHandler, authHandler *handlers.AuthHandler, opts Options) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		dashboardHandler: dashboardHandler,
		authHandler:      authHandler,
		sessions:         opts.Sessions,
		cookieName:       opts.CookieName,
		allowedOrigins:   opts.AllowedOrigins,
		metrics:          opts.Metrics,
		logger:           opts.Logger,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Session endpoints
	r.mux.HandleFunc("GET /login", r.authHandler.LoginPage)
	r.mux.HandleFunc("POST /login", r.authHandler.Login)
	r.mux.HandleFunc("POST /logout", r.authHandler.Logout)

	// Dashboard endpoints, behind the session gate
	gate := middleware.SessionMiddleware(r.sessions, r.cookieName, r.logger)
	r.mux.Handle("GET /api/dashboard", gate(http.HandlerFunc(r.dashboardHandler.GetDashboard)))
	r.mux.Handle("GET /api/records", gate(http.HandlerFunc(r.dashboardHandler.ListRecords)))
	r.mux.Handle("GET /api/records/export", gate(http.HandlerFunc(r.dashboardHandler.ExportRecords)))
	r.mux.Handle("GET /api/years", gate(http.HandlerFunc(r.dashboardHandler.ListYears)))

	r.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/dashboard", http.StatusSeeOther)
	})

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(r.logger)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.NoStore(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
