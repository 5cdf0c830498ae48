package sandbox

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	mw "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/sandbox/middleware"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/metrics"
)

const (
	writePort = "write"
	readPort  = "read"
)

// WriteHandler serves login and every mutation. All routes but login need a token.
func (s *Sandbox) WriteHandler() http.Handler {
	r := s.baseRouter(writePort)

	ah := &authHandler{s: s}
	r.Post("/admins/login", ah.Login)

	r.Group(func(protected chi.Router) {
		protected.Use(mw.Auth(s.opts.JWTSecret))
		for _, name := range s.ruleNames() {
			h := &resourceHandler{s: s, rule: s.rules[name]}
			protected.Route("/"+name, func(rr chi.Router) {
				rr.Post("/create", h.Create)
				rr.Put("/{id}", h.Update)
				rr.Delete("/{id}", h.Delete)
			})
		}
	})
	return r
}

// ReadHandler serves listings, single records and file downloads without auth.
func (s *Sandbox) ReadHandler() http.Handler {
	r := s.baseRouter(readPort, chimid.Compress(5))

	for _, name := range s.ruleNames() {
		h := &resourceHandler{s: s, rule: s.rules[name]}
		r.Route("/"+name, func(rr chi.Router) {
			rr.Get("/all", h.List)
			rr.Get("/download/*", h.Download)
			rr.Get("/{id}", h.Get)
		})
	}
	return r
}

// baseRouter applies the shared middleware, then extra, and mounts the probes.
func (s *Sandbox) baseRouter(port string, extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging(port))
	r.Use(mw.CORS(s.opts.CORSOrigins...))
	limiter := mw.NewLimiter(s.opts.RPS, s.opts.Burst)
	s.mu.Lock()
	s.limiters = append(s.limiters, limiter)
	s.mu.Unlock()
	r.Use(limiter.RateLimit)
	r.Use(s.metrics.Middleware(port))
	r.Use(extra...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		mw.WriteDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		mw.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	hh := &healthHandler{ping: s.ping}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)
	r.Handle("/metrics", metrics.Handler(s.opts.Registry))
	return r
}

// SweepLimiters forgets rate-limit state of clients idle for longer than idle.
func (s *Sandbox) SweepLimiters(idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.limiters {
		l.Sweep(idle)
	}
}

func (s *Sandbox) ping(r *http.Request) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(r.Context())
}

func (s *Sandbox) ruleNames() []string {
	names := make([]string, 0, len(s.rules))
	for n := range s.rules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
