// Package mockservice is a stand-in for the leave-management API. It reproduces how the real
// service answers requests that carry no valid credentials, which is all the smoke tests
// exercise, so the harness can be run and tested without a deployment.
package mockservice

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// ValidToken is the only bearer token and identity token the mock service accepts.
const ValidToken = "mock-valid-token"

// RootMessage is returned by the API root and by any unrouted GET path.
const RootMessage = "Breakly API - Ready!"

type override struct {
	status int
	body   interface{}
}

// Service holds the mock's routing state.
type Service struct {
	overrides map[string]override
	logger    logrus.FieldLogger
	requests  int
	lock      sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithOverride makes method+path answer with a fixed status instead of the normal behavior.
// If body is nil, the body is {"error": "<status text>"}.
func WithOverride(method, path string, status int, body interface{}) Option {
	return func(s *Service) {
		if body == nil {
			body = map[string]string{"error": http.StatusText(status)}
		}
		s.overrides[overrideKey(method, path)] = override{status: status, body: body}
	}
}

// WithLogger logs each request at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{overrides: make(map[string]override)}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		s.logger = l
	}
	return s
}

// Router returns the HTTP handler for the service.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.applyOverrides)

	r.NotFound(s.fallback)
	r.MethodNotAllowed(s.fallback)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.getRoot)
		r.Get("/user", s.requireAuth(s.getUser))
		r.Get("/leaves", s.requireAuth(s.getLeaves))
		r.Post("/leaves", s.requireAuth(s.createLeave))
		r.Get("/leaves/pending", s.requireAuth(s.getPendingLeaves))
		r.Put("/leaves/approve", s.requireAuth(s.approveLeave))
		r.Get("/dashboard/stats", s.requireAuth(s.getDashboardStats))
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
	})
	return r
}

// RequestCount returns how many requests the service has handled.
func (s *Service) RequestCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.requests
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.requests++
		s.lock.Unlock()
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": r.Header.Get("X-Request-Id"),
		}).Debug("mock service request")
		next.ServeHTTP(w, r)
	})
}

func (s *Service) applyOverrides(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if o, ok := s.overrides[overrideKey(r.Method, r.URL.Path)]; ok {
			writeJSON(w, o.status, o.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// fallback reproduces the catch-all behavior of the real API: unrouted GETs under /api get
// the root message, DELETE is not supported at all, and other unrouted methods are 404.
func (s *Service) fallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api" && !strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.getRoot(w, r)
	case http.MethodPost, http.MethodPut:
		writeError(w, http.StatusNotFound, "Endpoint not found")
	default:
		w.Header().Set("Allow", "GET, POST, PUT")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func overrideKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encoding error cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
