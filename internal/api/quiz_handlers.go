package api

import (
	"net/http"

	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/results"
)

type answerRequest struct {
	OptionID string `json:"optionId"`
}

type resultsResponse struct {
	models.QuizResults
	TotalTimeText string `json:"totalTimeText"`
}

func newResultsResponse(res models.QuizResults) resultsResponse {
	return resultsResponse{QuizResults: res, TotalTimeText: results.FormatClock(res.TotalTime)}
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	snap, err := s.QuizService.StartQuiz(r.Context(), urlParam(r, "topic"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("quiz started: session=%s topic=%s items=%d", snap.SessionID, snap.Topic, snap.Total)
	respondJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.QuizService.GetSession(r.Context(), urlParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.QuizService.SelectOption(r.Context(), urlParam(r, "id"), req.OptionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleSessionResults(w http.ResponseWriter, r *http.Request) {
	res, err := s.QuizService.Results(r.Context(), urlParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newResultsResponse(res))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.QuizService.EndSession(r.Context(), urlParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePayloadResults summarizes a session the client serialized itself.
// A malformed payload still gets a 200 with an empty view.
func (s *Server) handlePayloadResults(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newResultsResponse(s.QuizService.ResultsFromPayload(r.Context(), body)))
}
