// Package http is the JSON API surface. Handlers resolve the session, call
// the engines or the service layer, and map domain errors to status codes.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/RIxiV1/SubSentry/internal/cache"
	"github.com/RIxiV1/SubSentry/internal/log"
	"github.com/RIxiV1/SubSentry/internal/services"
	"github.com/RIxiV1/SubSentry/internal/session"
	"github.com/RIxiV1/SubSentry/internal/store"
)

// Config carries the HTTP-facing tunables.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	CacheTTL           time.Duration
}

type Server struct {
	http.Server

	svc      *services.SubscriptionService
	store    store.Store
	sessions *session.Store
	logger   *log.Logger

	rateLimiter *rateLimiter

	// Dashboard view models keyed by user. Invalidated on every write for
	// that user; currency formatting happens after the cache lookup.
	dashCache *cache.LRU[dashboardData]

	shutdownOnce sync.Once
}

func NewServer(cfg Config, svc *services.SubscriptionService, st store.Store, sessions *session.Store, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 60
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	s := &Server{
		Server: http.Server{
			Addr:    cfg.Addr,
			Handler: mux,
		},
		svc:         svc,
		store:       st,
		sessions:    sessions,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(cfg.RateLimitPerMinute),
		dashCache:   cache.NewLRU[dashboardData](500, cfg.CacheTTL),
	}
	s.dashCache.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/v1/sessions", s.withMiddleware(s.handleStartSession))
	mux.HandleFunc("DELETE /api/v1/sessions", s.withMiddleware(s.handleEndSession))
	mux.HandleFunc("GET /api/v1/session", s.withMiddleware(s.withSession(s.handleGetSession)))

	mux.HandleFunc("GET /api/v1/subscriptions", s.withMiddleware(s.withSession(s.handleListSubscriptions)))
	mux.HandleFunc("POST /api/v1/subscriptions", s.withMiddleware(s.withSession(s.handleCreateSubscription)))
	mux.HandleFunc("PATCH /api/v1/subscriptions/{id}", s.withMiddleware(s.withSession(s.handleUpdateSubscription)))
	mux.HandleFunc("DELETE /api/v1/subscriptions/{id}", s.withMiddleware(s.withSession(s.handleCancelSubscription)))

	mux.HandleFunc("GET /api/v1/dashboard", s.withMiddleware(s.withSession(s.handleDashboard)))
	mux.HandleFunc("GET /api/v1/insights", s.withMiddleware(s.withSession(s.handleInsights)))
	mux.HandleFunc("GET /api/v1/recommendations", s.withMiddleware(s.withSession(s.handleRecommendations)))

	mux.HandleFunc("GET /api/v1/budget", s.withMiddleware(s.withSession(s.handleGetBudget)))
	mux.HandleFunc("PUT /api/v1/budget", s.withMiddleware(s.withSession(s.handleSetBudget)))

	mux.HandleFunc("GET /api/v1/savings", s.withMiddleware(s.withSession(s.handleListSavings)))
	mux.HandleFunc("DELETE /api/v1/savings/{id}", s.withMiddleware(s.withSession(s.handleDeleteSavings)))
	mux.HandleFunc("DELETE /api/v1/savings", s.withMiddleware(s.withSession(s.handleClearSavings)))

	return s
}

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// withMiddleware adds security headers, request IDs, rate limiting on
// mutating methods, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"))

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			s.writeJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

// withSession resolves the bearer token and passes the session along. Absent
// or expired tokens are a 401 for every protected route.
func (s *Server) withSession(next func(http.ResponseWriter, *http.Request, session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(bearerToken(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r, sess)
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// invalidateDashboard drops the cached view for the user.
func (s *Server) invalidateDashboard(userID string) {
	s.dashCache.Delete(userID)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the background loops before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.dashCache.StopCleanup()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
