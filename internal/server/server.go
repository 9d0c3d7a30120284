// Package server provides the HTTP REST API for the LocalPulse backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/localpulse/localpulse/internal/feed"
	"github.com/localpulse/localpulse/internal/gateway"
	"github.com/localpulse/localpulse/internal/server/ratelimit"
	"github.com/localpulse/localpulse/internal/session"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	gateway     *gateway.Gateway
	store       feed.Store
	sessions    session.Store
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate

	// flights collapses duplicate concurrent model calls for the same
	// action so one slow enrichment does not fan out into many.
	flights singleflight.Group

	// sessionLocks serializes chat turns within a session so the
	// stored transcript stays an alternating user/model sequence.
	sessionLocks sync.Map // session id -> *sync.Mutex

	sweepStop chan struct{}
	closeOnce sync.Once
}

// Config holds server configuration
type Config struct {
	Addr       string
	Gateway    *gateway.Gateway
	Store      feed.Store
	Sessions   session.Store
	SessionTTL time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("server requires a gateway")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("server requires an opportunity store")
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	s := &Server{
		gateway:     cfg.Gateway,
		store:       cfg.Store,
		sessions:    cfg.Sessions,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Opportunity feed
	mux.HandleFunc("GET /api/opportunities", s.handleListOpportunities)
	mux.HandleFunc("GET /api/opportunities/{id}", s.handleGetOpportunity)
	mux.HandleFunc("POST /api/opportunities/{id}/enrich", s.handleEnrichOpportunity)
	mux.HandleFunc("POST /api/opportunities/{id}/draft", s.handleDraftResponse)

	// Image tools
	mux.HandleFunc("POST /api/analyze-image", s.handleAnalyzeImage)
	mux.HandleFunc("POST /api/generate-image", s.handleGenerateImage)

	// Chat assistant
	mux.HandleFunc("POST /api/chat/sessions", s.handleCreateChatSession)
	mux.HandleFunc("POST /api/chat/sessions/{id}/messages", s.handleChatMessage)
	mux.HandleFunc("DELETE /api/chat/sessions/{id}", s.handleResetChatSession)

	// Market intelligence reports
	mux.HandleFunc("POST /api/reports/discovery-map", s.handleDiscoveryMap)
	mux.HandleFunc("POST /api/reports/design-system", s.handleDesignSystem)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Report generation can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Periodic eviction of expired in-memory chat sessions
	if mem, ok := cfg.Sessions.(*session.MemoryStore); ok && cfg.SessionTTL > 0 {
		s.sweepStop = make(chan struct{})
		go s.sweepSessions(mem, cfg.SessionTTL)
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()

	log.Println("[server] stopped")
	return nil
}

// Close stops the background goroutines (rate limiter sweeper, session
// sweeper). Callers that use Handler without Start must call it; Start
// calls it on shutdown. Safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		if s.sweepStop != nil {
			close(s.sweepStop)
		}
	})
}

// Handler exposes the configured routes for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) sweepSessions(mem *session.MemoryStore, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			evicted := mem.Sweep()
			for _, id := range evicted {
				s.sessionLocks.Delete(id)
			}
			if len(evicted) > 0 {
				log.Printf("[server] evicted %d expired chat sessions", len(evicted))
			}
		case <-s.sweepStop:
			return
		}
	}
}

// sessionLock returns the mutex for a chat session, creating it on
// first use.
func (s *Server) sessionLock(id string) *sync.Mutex {
	mu, _ := s.sessionLocks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP from RemoteAddr; X-Forwarded-For would only be safe
// behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
