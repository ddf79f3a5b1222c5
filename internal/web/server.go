// Package web exposes the standardizer over HTTP: upload a statement, get
// the normalized CSV or XLSX back, or a JSON preview of the rows.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Standardizer is the part of the standardization service the handlers use.
type Standardizer interface {
	StandardizeBytes(filename string, content []byte) (*models.StandardizationResult, error)
}

// Server is the HTTP front end of the standardizer.
type Server struct {
	service       Standardizer
	logger        logging.Logger
	maxUpload     int64
	defaultFormat common.Format
	router        *chi.Mux
	server        *http.Server
}

// NewServer creates a Server. Upload limit and default export format come
// from cfg; a nil cfg uses config.Default().
func NewServer(service Standardizer, cfg *config.Config, logger logging.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	format, err := common.ParseFormat(cfg.Export.Format)
	if err != nil {
		format = common.FormatCSV
	}

	s := &Server{
		service:       service,
		logger:        logger,
		maxUpload:     cfg.MaxUploadBytes(),
		defaultFormat: format,
		router:        chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/standardize", s.handleStandardize)
		r.Post("/preview", s.handlePreview)
	})
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("Starting server", logging.F("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestLogger writes one debug line per request through the app logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("status", ww.Status()),
			logging.F("bytes", ww.BytesWritten()),
			logging.F("request_id", middleware.GetReqID(r.Context())),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	})
}

// writeJSON encodes v as JSON and writes it to w.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("Failed to encode JSON response")
	}
}
