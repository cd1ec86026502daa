// Package web provides the JSON HTTP API for facility records.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/facilitydesk/internal/config"
	"github.com/JonMunkholm/facilitydesk/internal/core"
	"github.com/JonMunkholm/facilitydesk/internal/web/middleware"
)

// Server is the HTTP server for the facility API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(withClientIP)

	// Security hardening
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// Attached photos, keyed by the image_url stored on the record
	images := http.StripPrefix("/images/", http.FileServer(http.Dir(s.cfg.Import.ImageDir)))
	s.router.Handle("/images/*", images)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.BearerAuth(&s.cfg.Security))

		r.Get("/kinds", s.handleListKinds)
		r.Get("/facilities", s.handleListFacilities)
		r.Post("/facilities/refresh", s.handleRefreshFacilities)

		// Preventive maintenance
		r.Get("/checklists", s.handleListChecklists)
		r.Get("/checklists/{checklist}", s.handleGetChecklist)
		r.Get("/checklists/{checklist}/logs", s.handleListMaintenanceLogs)
		r.Post("/checklists/{checklist}/logs", s.handleSubmitMaintenanceLog)

		r.Get("/supplies/stock-summary", s.handleStockSummary)

		r.Route("/{kind}", func(r chi.Router) {
			r.Use(requireKind)

			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get("/page", s.handlePage)
			r.Get("/export", s.handleExport)
			r.Get("/template", s.handleTemplate)
			r.Post("/bulk", s.handleBulkCreate)
			r.Delete("/bulk-delete", s.handleBulkDelete)

			// File uploads get their own, tighter budget
			r.Group(func(r chi.Router) {
				if s.cfg.Rate.Enabled {
					r.Use(s.newRateLimiter(s.cfg.Rate.ImportLimit).middleware)
				}
				r.Post("/import", s.handleImport)
				r.Post("/{id}/image", s.handleAttachImage)
			})

			r.Get("/{id}", s.handleGet)
			r.Put("/{id}", s.handleUpdate)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) newRateLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, rateWindow)
	s.limiters = append(s.limiters, rl)
	return rl
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// JSON only; nothing should be loaded from a response
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// requireKind rejects unknown kinds before any handler runs.
func requireKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := core.MustGet(chi.URLParam(r, "kind")); err != nil {
			respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
