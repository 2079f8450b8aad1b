// Package server exposes a read-only view of the poller state over http
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feed2reddit/pkg/scheduler"
)

//go:generate moq -out mocks/status.go -pkg mocks -skip-ensure -fmt goimports . StatusProvider

// StatusProvider reports the poller state
type StatusProvider interface {
	Status() scheduler.Status
}

// Server exposes the poller state over http
type Server struct {
	listen  string
	timeout time.Duration
	status  StatusProvider
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New makes a status server, debug enables request logging
func New(listen string, timeout time.Duration, status StatusProvider, version string, debug bool) *Server {
	s := &Server{
		listen:  listen,
		timeout: timeout,
		status:  status,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run serves until the context is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting status server on %s", s.listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.timeout,
		ReadTimeout:       s.timeout,
		WriteTimeout:      s.timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down status server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware sets the middleware chain, request logging in debug mode only
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feed2reddit", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(10))
}

// setupRoutes adds the read-only api
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})
}

// statusHandler returns poller state
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	st := s.status.Status()
	resp := map[string]any{
		"status":        "ok",
		"version":       s.version,
		"time":          time.Now().UTC(),
		"submit":        st.Submit,
		"interval":      st.Interval.String(),
		"base_interval": st.BaseInterval.String(),
		"cycles":        st.Cycles,
		"posted":        st.Posted,
		"deleted":       st.Deleted,
	}
	if !st.LastCycle.IsZero() {
		resp["last_cycle"] = st.LastCycle.UTC()
	}
	if st.LastError != "" {
		resp["last_error"] = st.LastError
	}
	RenderJSON(w, r, http.StatusOK, resp)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
