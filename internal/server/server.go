// Package server exposes the workout service over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/cyclefit/internal/logger"
	"github.com/julianstephens/cyclefit/internal/workout"
)

const shutdownTimeout = 5 * time.Second

// Server routes requests to a workout.Service. The service and the store
// behind it are not safe for concurrent use, so every handler holds mu.
type Server struct {
	router   *chi.Mux
	svc      *workout.Service
	validate *validator.Validate
	mu       sync.Mutex
}

func New(svc *workout.Service) *Server {
	s := &Server{
		svc:      svc,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(logRequests)
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Post("/users", s.createUser)
	router.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", s.getUser)
		r.Put("/preferences", s.updatePreferences)
		r.Get("/plan", s.currentPlan)
		r.Post("/plan", s.startPlan)
		r.Get("/plan/export", s.exportPlan)
		r.Post("/plan/days/{day}", s.recordDay)
		r.Get("/plans", s.history)
	})

	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}
