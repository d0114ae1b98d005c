// Package server exposes the gateway's HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lyfe05/matchgate/pkg/audit"
	"github.com/lyfe05/matchgate/pkg/cache"
	"github.com/lyfe05/matchgate/pkg/config"
	"github.com/lyfe05/matchgate/pkg/encoding"
	"github.com/lyfe05/matchgate/pkg/models"
)

const fetchFailedMsg = "Failed to fetch matches data"

// Server is the matchgate HTTP gateway.
type Server struct {
	cfg     *config.Config
	cache   *cache.Cache
	auditor *audit.Logger
	logger  *zap.Logger
	keys    map[string]bool
	mux     *http.ServeMux
}

// New creates a Server wired with all dependencies. auditor may be nil.
func New(cfg *config.Config, c *cache.Cache, auditor *audit.Logger, logger *zap.Logger) *Server {
	keys := make(map[string]bool, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		keys[k] = true
	}

	s := &Server{
		cfg:     cfg,
		cache:   c,
		auditor: auditor,
		logger:  logger,
		keys:    keys,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/matches", s.requireAPIKey(s.handleMatches))
	s.mux.HandleFunc("/encoded", s.handleEncoded)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the gateway with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("matchgate listening", zap.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

// requireAPIKey gates a handler behind the configured key set. With no
// keys configured the deployment runs open and the handler is called
// directly. The check runs before any cache access, so rejected requests
// never touch the hit/miss counters.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.keys) == 0 {
			next(w, r)
			return
		}

		key := r.Header.Get("Authorization")
		if key == "" {
			writeJSON(w, http.StatusUnauthorized, models.AuthError{Error: "API key required"})
			return
		}
		key = strings.TrimPrefix(key, "Bearer ")
		if !s.keys[key] {
			writeJSON(w, http.StatusUnauthorized, models.AuthError{Error: "Invalid API key"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, models.ServiceInfo{
		Message:       "Football Matches Proxy API",
		Status:        "running",
		Source:        "GitHub Pages",
		CacheDuration: "10 minutes",
		Endpoints: map[string]string{
			"health":  "/health",
			"matches": "/matches",
			"encoded": "/encoded",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	doc, _, err := s.cache.Get(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, models.DegradedResponse{
			Status:    "degraded",
			Source:    "offline",
			Error:     fetchFailedMsg,
			Timestamp: timestamp(),
		})
		return
	}

	stats := s.cache.Stats()
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status: "healthy",
		Source: "online",
		Cache: models.CacheHealth{
			Enabled:         true,
			DurationSeconds: stats.MaxAge,
			CurrentAge:      stats.AgeSeconds,
			Hits:            stats.Hits,
			Misses:          stats.Misses,
		},
		MatchesCount: doc.MatchesCount,
		LastUpdated:  doc.LastUpdated,
		Timestamp:    timestamp(),
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	doc, age, err := s.cache.Get(r.Context())
	if err != nil {
		s.audit(r, http.StatusServiceUnavailable, 0, start)
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Success:   false,
			Error:     fetchFailedMsg,
			Timestamp: timestamp(),
		})
		return
	}

	_, prefix := audit.HashAPIKey(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	s.logger.Info("api request",
		zap.String("key_prefix", prefix),
		zap.Int("cache_age", age))

	s.audit(r, http.StatusOK, age, start)
	writeJSON(w, http.StatusOK, models.MatchesResponse{
		Success:      true,
		LastUpdated:  doc.LastUpdated,
		MatchesCount: doc.MatchesCount,
		CacheInfo: models.CacheInfo{
			AgeSeconds:    age,
			MaxAgeSeconds: int(cache.MaxAge.Seconds()),
		},
		Data: doc.Data,
	})
}

func (s *Server) handleEncoded(w http.ResponseWriter, r *http.Request) {
	doc, age, err := s.cache.Get(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Success:   false,
			Error:     fetchFailedMsg,
			Timestamp: timestamp(),
		})
		return
	}

	raw, err := json.Marshal(doc.Data)
	if err != nil {
		s.logger.Error("encode serialization failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Success:   false,
			Error:     "Failed to encode matches data",
			Timestamp: timestamp(),
		})
		return
	}

	encoded := encoding.Encode(string(raw))
	writeJSON(w, http.StatusOK, models.EncodedResponse{
		Success:      true,
		LastUpdated:  doc.LastUpdated,
		MatchesCount: doc.MatchesCount,
		CacheInfo: models.CacheInfo{
			AgeSeconds:    age,
			MaxAgeSeconds: int(cache.MaxAge.Seconds()),
		},
		EncodedData:    encoded,
		OriginalLength: len(raw),
		EncodedLength:  len(encoded),
	})
}

// audit records a gated request without blocking the response path.
func (s *Server) audit(r *http.Request, status, cacheAge int, start time.Time) {
	if s.auditor == nil {
		return
	}
	hash, prefix := audit.HashAPIKey(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	entry := models.RequestEntry{
		APIKeyHash:   hash,
		APIKeyPrefix: prefix,
		Method:       r.Method,
		Path:         r.URL.Path,
		StatusCode:   status,
		CacheAge:     cacheAge,
		LatencyMs:    time.Since(start).Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	go func() {
		if err := s.auditor.Log(context.Background(), entry); err != nil {
			s.logger.Warn("audit log failed", zap.Error(err))
		}
	}()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
