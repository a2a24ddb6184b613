// Package stubapi is a scripted stand-in for the studio backend, used by
// tests the way a browser suite intercepts /api calls: each test registers
// canned replies with Intercept, drives the client, then inspects the
// recorded requests. It holds no domain state of its own.
package stubapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/yogastudio/internal/logging"
)

// Reply is a canned response.
type Reply struct {
	Status int // 0 means 200
	Body   any // nil (no body), []byte or string (sent raw), or a value encoded as JSON
}

// Request is a request the stub received.
type Request struct {
	ID     string // X-Request-ID assigned by the stub
	Method string
	Path   string
	Route  string // matched route pattern, e.g. /api/session/{id}/participate/{userId}
	Header http.Header
	Body   []byte
}

// Server implements http.Handler.
type Server struct {
	router   chi.Router
	logger   *slog.Logger
	mu       sync.Mutex
	replies  map[string]Reply
	requests []Request
	fallback int
}

// New creates a stub with the backend's route table and no intercepts.
func New(logger *slog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logging.OrDiscard(logger).With("component", "stubapi"),
		replies:  make(map[string]Reply),
		fallback: http.StatusNotFound,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Intercept makes the stub answer method path (a concrete path such as
// /api/session/1) with status and body. A later call for the same method and
// path replaces the earlier one.
func (s *Server) Intercept(method, path string, status int, body any) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[key(method, path)] = Reply{Status: status, Body: body}
	return s
}

// Fallback sets the status used for routed requests without an intercept (default 404).
func (s *Server) Fallback(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = status
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls returns the recorded requests for method path.
func (s *Server) Calls(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Reset drops all intercepts and recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = make(map[string]Reply)
	s.requests = nil
}

func key(method, path string) string {
	return method + " " + path
}

func (s *Server) lookup(method, path string) (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply, ok := s.replies[key(method, path)]
	if !ok {
		return Reply{Status: s.fallback, Body: map[string]string{"message": "no intercept for " + key(method, path)}}, false
	}
	return reply, true
}

func (s *Server) record(req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(s.recordMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.stub())
			r.Post("/register", s.stub())
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.stub())
			r.Post("/", s.stub())
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.stub("id"))
				r.Put("/", s.stub("id"))
				r.Delete("/", s.stub("id"))
				r.Post("/participate/{userId}", s.stub("id", "userId"))
				r.Delete("/participate/{userId}", s.stub("id", "userId"))
			})
		})

		r.Route("/teacher", func(r chi.Router) {
			r.Get("/", s.stub())
			r.Get("/{id}", s.stub("id"))
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/{id}", s.stub("id"))
			r.Delete("/{id}", s.stub("id"))
		})
	})
}

// stub answers with the intercepted reply. Like the real backend, a
// non-numeric path parameter is rejected with 400 before any lookup.
func (s *Server) stub(numericParams ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, name := range numericParams {
			if _, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64); err != nil {
				respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid " + name})
				return
			}
		}
		reply, ok := s.lookup(r.Method, r.URL.Path)
		if !ok {
			s.logger.Debug("no intercept", "method", r.Method, "path", r.URL.Path)
		}
		respond(w, reply)
	}
}
