// Package quiz runs quiz sessions: the per-session state machine and the
// single-threaded engine that feeds it user selections and timer events.
package quiz

import (
	"errors"
	"math"
	"time"

	"github.com/vytor/neuroquiz/internal/models"
)

var (
	ErrSessionComplete = errors.New("session is complete")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("current question has not been answered")
	ErrUnknownOption   = errors.New("option does not belong to the current question")
)

type State string

const (
	StateActive   State = "active"
	StateComplete State = "complete"
)

// Session is one quiz attempt. It is not safe for concurrent use; the Engine
// serialises every call onto its event loop.
type Session struct {
	data   models.QuizSession
	budget int // seconds per question

	answered bool
	selected string
	timeLeft int
	elapsed  int
	// seen is set once the client has looked at the current question.
	seen     bool
}

// NewSession starts at the first question. A session without items is complete
// from the start.
func NewSession(id, topic string, items []models.QuizItem, now time.Time, budget time.Duration) *Session {
	secs := int(budget / time.Second)
	if secs < 1 {
		secs = 1
	}
	s := &Session{
		data: models.QuizSession{
			ID:                id,
			Topic:             topic,
			Items:             items,
			StartTime:         models.NewUnixMilli(now),
			QuestionStartTime: models.NewUnixMilli(now),
			Answers:           []models.QuizAnswer{},
			IsComplete:        len(items) == 0,
		},
		budget:   secs,
		timeLeft: secs,
	}
	return s
}

func (s *Session) ID() string { return s.data.ID }

func (s *Session) State() State {
	if s.data.IsComplete {
		return StateComplete
	}
	return StateActive
}

// Index is the current question index.
func (s *Session) Index() int { return s.data.CurrentIndex }

// Answered reports whether the current question already has an answer.
func (s *Session) Answered() bool { return s.answered }

// MarkSeen records that the client has been shown the current question.
func (s *Session) MarkSeen() { s.seen = true }

func (s *Session) Seen() bool { return s.seen }

// Expiring reports whether the next tick will time the current question out.
func (s *Session) Expiring() bool {
	return !s.data.IsComplete && !s.answered && s.timeLeft <= 1
}

// Data returns a deep copy of the underlying session record.
func (s *Session) Data() models.QuizSession { return s.data.Clone() }

func (s *Session) current() models.QuizItem {
	return s.data.Items[s.data.CurrentIndex]
}

// Answer records the user's selection for the current question. The first
// accepted answer wins; later calls fail with ErrAlreadyAnswered.
func (s *Session) Answer(optionID string, now time.Time) (models.QuizAnswer, error) {
	return s.record(optionID, now, false)
}

// Timeout submits the first incorrect option of the current question on the
// user's behalf.
func (s *Session) Timeout(now time.Time) (models.QuizAnswer, error) {
	if s.data.IsComplete {
		return models.QuizAnswer{}, ErrSessionComplete
	}
	var wrong string
	for _, o := range s.current().Options {
		if !o.IsCorrect {
			wrong = o.ID
			break
		}
	}
	return s.record(wrong, now, true)
}

func (s *Session) record(optionID string, now time.Time, timedOut bool) (models.QuizAnswer, error) {
	if s.data.IsComplete {
		return models.QuizAnswer{}, ErrSessionComplete
	}
	if s.answered {
		return models.QuizAnswer{}, ErrAlreadyAnswered
	}

	item := s.current()
	opt, ok := item.Option(optionID)
	if !ok && !timedOut {
		return models.QuizAnswer{}, ErrUnknownOption
	}

	spent := int(math.Round(now.Sub(s.data.QuestionStartTime.Time()).Seconds()))
	if spent < 0 {
		spent = 0
	}

	ans := models.QuizAnswer{
		ItemID:           item.ID,
		SelectedOptionID: optionID,
		IsCorrect:        ok && opt.IsCorrect,
		TimeSpent:        spent,
		TimedOut:         timedOut,
	}
	s.data.Answers = append(s.data.Answers, ans)
	if ans.IsCorrect {
		s.data.Score++
	}
	s.answered = true
	s.selected = optionID
	return ans, nil
}

// Tick advances the one-second clocks. The elapsed counter always moves while
// the session is active; the question countdown only moves while unanswered
// and submits a timeout when it runs out.
func (s *Session) Tick(now time.Time) (models.QuizAnswer, bool) {
	if s.data.IsComplete {
		return models.QuizAnswer{}, false
	}
	s.elapsed++
	if s.answered {
		return models.QuizAnswer{}, false
	}
	if s.timeLeft > 1 {
		s.timeLeft--
		return models.QuizAnswer{}, false
	}
	s.timeLeft = 0
	ans, err := s.Timeout(now)
	if err != nil {
		return models.QuizAnswer{}, false
	}
	return ans, true
}

// Advance moves past an answered question, completing the session after the last one.
func (s *Session) Advance(now time.Time) (bool, error) {
	if s.data.IsComplete {
		return true, ErrSessionComplete
	}
	if !s.answered {
		return false, ErrNotAnswered
	}

	next := s.data.CurrentIndex + 1
	if next >= len(s.data.Items) {
		s.data.CurrentIndex = next
		s.data.IsComplete = true
		return true, nil
	}

	s.data.CurrentIndex = next
	s.data.QuestionStartTime = models.NewUnixMilli(now)
	s.answered = false
	s.selected = ""
	s.seen = false
	s.timeLeft = s.budget
	return false, nil
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	SessionID        string             `json:"sessionId"`
	Topic            string             `json:"topic"`
	State            State              `json:"state"`
	Index            int                `json:"index"`
	Total            int                `json:"total"`
	Score            int                `json:"score"`
	TimeLeft         int                `json:"timeLeft"`
	Elapsed          int                `json:"elapsed"`
	Progress         float64            `json:"progress"`
	Prompt           string             `json:"prompt,omitempty"`
	Current          *models.QuizItem   `json:"current,omitempty"`
	SelectedOptionID string             `json:"selectedOptionId,omitempty"`
	ShowFeedback     bool               `json:"showFeedback"`
	LastAnswer       *models.QuizAnswer `json:"lastAnswer,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:        s.data.ID,
		Topic:            s.data.Topic,
		State:            s.State(),
		Index:            s.data.CurrentIndex,
		Total:            len(s.data.Items),
		Score:            s.data.Score,
		TimeLeft:         s.timeLeft,
		Elapsed:          s.elapsed,
		SelectedOptionID: s.selected,
		ShowFeedback:     s.answered,
	}
	if n := len(s.data.Answers); n > 0 {
		last := s.data.Answers[n-1]
		snap.LastAnswer = &last
	}
	if s.data.IsComplete {
		snap.Progress = 100
		if snap.Total == 0 {
			snap.Progress = 0
		}
		snap.TimeLeft = 0
		return snap
	}
	item := s.current().Clone()
	snap.Current = &item
	snap.Prompt = item.PromptText()
	snap.Progress = float64(s.data.CurrentIndex+1) / float64(snap.Total) * 100
	return snap
}
