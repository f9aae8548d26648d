package api

import "net/http"

func (s *Server) handleMissed(w http.ResponseWriter, r *http.Request) {
	items := s.ReviewService.MissedItems(r.Context())
	respondJSON(w, r, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.ReviewService.StartReview(r.Context()))
}
