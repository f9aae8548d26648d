package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/neuroquiz/internal/errors"
)

var (
	errNoRoute          = &errors.AppError{Code: errors.ErrCodeNotFound, Message: "no such route", Status: http.StatusNotFound}
	errMethodNotAllowed = &errors.AppError{Code: errors.ErrCodeBadRequest, Message: "method not allowed", Status: http.StatusMethodNotAllowed}
)

// urlParam returns a decoded path parameter. chi matches on the decoded path
// unless the request carries a RawPath (an escaped "/" for instance), and only
// then is the parameter still encoded.
func urlParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.ContentService.ListTopics(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) handleTopicItems(w http.ResponseWriter, r *http.Request) {
	topic := urlParam(r, "topic")
	items, err := s.ContentService.TopicItems(r.Context(), topic)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"topic": topic, "items": items})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	ref, err := s.ContentService.ResolveImage(r.Context(), urlParam(r, "key"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, ref)
}
