package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/neuroquiz/internal/logger"
)

// handleHealth is the liveness probe; it only proves the process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 503 while the key-value store is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Store.Ping(ctx); err != nil {
			log.Warn("readiness check failed - store: %v", err)
			respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "store unavailable"})
			return
		}
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
