package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	apperrors "github.com/vytor/neuroquiz/internal/errors"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/quiz"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 30 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamReadLimit  = 512
)

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Native clients send no Origin.
			if origin == "" {
				return true
			}
			for _, allowed := range s.CORSOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			logger.FromContext(r.Context()).Warn("websocket: rejected origin %s", origin)
			return false
		},
	}
}

// handleStream pushes the session snapshot over a websocket whenever it
// changes, and closes the stream once the session is complete or gone.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	first, err := s.QuizService.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		logger.FromContext(r.Context()).Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	log := logger.FromContext(ctx).WithField("session_id", id)
	log.Debug("stream opened")

	go readPump(conn, cancel)

	interval := s.StreamInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	poll := time.NewTicker(interval)
	defer poll.Stop()
	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	var last []byte
	push := func(snap quiz.Snapshot) bool {
		data, err := json.Marshal(snap)
		if err != nil {
			log.Error("failed to encode snapshot: %v", err)
			return false
		}
		if bytes.Equal(data, last) {
			return true
		}
		last = data
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("stream write failed: %v", err)
			return false
		}
		return true
	}
	closeWith := func(code int, text string) {
		msg := websocket.FormatCloseMessage(code, text)
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
	}

	if !push(first) {
		return
	}
	if first.State == quiz.StateComplete {
		closeWith(websocket.CloseNormalClosure, "session complete")
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug("stream closed by client")
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-poll.C:
			snap, err := s.QuizService.GetSession(ctx, id)
			if err != nil {
				log.Debug("stream ending: %v", err)
				if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
					closeWith(websocket.CloseGoingAway, "session closed")
				} else {
					closeWith(websocket.CloseInternalServerErr, "session unavailable")
				}
				return
			}
			if !push(snap) {
				return
			}
			if snap.State == quiz.StateComplete {
				closeWith(websocket.CloseNormalClosure, "session complete")
				return
			}
		}
	}
}

// readPump only services control frames; any read error ends the stream.
func readPump(conn *websocket.Conn, done context.CancelFunc) {
	defer done()
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
