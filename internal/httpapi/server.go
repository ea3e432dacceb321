// ABOUTME: JSON HTTP API over the tracker service.
// ABOUTME: gorilla/mux routing with access logging, panic recovery, CORS and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/harperreed/nourish/internal/metrics"
	"github.com/harperreed/nourish/internal/tracker"
	"github.com/rs/cors"
)

// Server serves the nourish API.
type Server struct {
	svc     *tracker.Service
	metrics *metrics.Metrics
	logger  *log.Logger
}

// New creates an API server. metrics and logger may be nil.
func New(svc *tracker.Service, m *metrics.Metrics, logger *log.Logger) *Server {
	return &Server{svc: svc, metrics: m, logger: logger}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	s.route(r, "/healthz", "healthz", s.handleHealth, http.MethodGet)
	s.route(r, "/api/nutrition", "nutrition", s.handleLookup, http.MethodGet)
	s.route(r, "/api/meals", "meals_list", s.handleListMeals, http.MethodGet)
	s.route(r, "/api/meals", "meals_add", s.handleAddMeal, http.MethodPost)
	s.route(r, "/api/meals/{id}", "meals_delete", s.handleDeleteMeal, http.MethodDelete)
	s.route(r, "/api/activities", "activities_add", s.handleAddActivity, http.MethodPost)
	s.route(r, "/api/fitness/{date}", "fitness_put", s.handleRecordFitness, http.MethodPut)
	s.route(r, "/api/summary", "summary", s.handleSummary, http.MethodGet)
	s.route(r, "/api/target", "target", s.handleTarget, http.MethodGet)
	s.route(r, "/api/score", "score", s.handleScore, http.MethodPost)
	s.route(r, "/api/flag", "flag", s.handleFlag, http.MethodPost)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	h = c.Handler(h)
	if s.logger != nil {
		h = handlers.CustomLoggingHandler(io.Discard, h, s.logRequest)
	}
	return h
}

func (s *Server) route(r *mux.Router, path, name string, fn http.HandlerFunc, method string) {
	var h http.Handler = fn
	if s.metrics != nil {
		h = s.metrics.WrapHandler(name, h)
	}
	r.Handle(path, h).Methods(method)
}

func (s *Server) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	s.logger.Info("http request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
	)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Info("http api listening", "addr", addr)
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
