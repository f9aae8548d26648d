// Package results turns finished quiz sessions into scores and keeps the
// durable list of missed items.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vytor/neuroquiz/internal/models"
)

// Accuracy is score/total as a rounded percentage; 0 for an empty quiz.
func Accuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Performance is the headline shown with the results.
func Performance(accuracy int) string {
	switch {
	case accuracy >= 90:
		return "Excellent!"
	case accuracy >= 70:
		return "Good job!"
	case accuracy >= 50:
		return "Keep practicing!"
	default:
		return "Review and try again!"
	}
}

// Summarize builds the results view. Total time runs from the session start to
// now, so it keeps growing for as long as the view is re-read.
func Summarize(session models.QuizSession, now time.Time) models.QuizResults {
	total := len(session.Items)
	acc := Accuracy(session.Score, total)

	elapsed := int(math.Round(now.Sub(session.StartTime.Time()).Seconds()))
	if elapsed < 0 || session.StartTime == 0 {
		elapsed = 0
	}

	return models.QuizResults{
		SessionID:      session.ID,
		Topic:          session.Topic,
		Score:          session.Score,
		TotalQuestions: total,
		Accuracy:       acc,
		TotalTime:      elapsed,
		Streak:         LongestStreak(session.Answers),
		MissedItems:    MissedItems(session),
		Performance:    Performance(acc),
	}
}

// Empty is the view shown when there is no usable session.
func Empty(topic string) models.QuizResults {
	return models.QuizResults{
		Topic:       topic,
		MissedItems: []models.QuizItem{},
		Performance: Performance(0),
	}
}

// MissedItems lists, in quiz order, every item answered incorrectly or not
// answered at all. Answers are matched to items by id.
func MissedItems(session models.QuizSession) []models.QuizItem {
	missed := []models.QuizItem{}
	for _, item := range session.Items {
		if ans, ok := session.AnswerFor(item.ID); ok && ans.IsCorrect {
			continue
		}
		missed = append(missed, item.Clone())
	}
	return missed
}

// IncorrectItems lists only the items with a recorded incorrect answer.
func IncorrectItems(session models.QuizSession) []models.QuizItem {
	out := []models.QuizItem{}
	for _, item := range session.Items {
		if ans, ok := session.AnswerFor(item.ID); ok && !ans.IsCorrect {
			out = append(out, item.Clone())
		}
	}
	return out
}

// LongestStreak is the longest run of consecutive correct answers.
func LongestStreak(answers []models.QuizAnswer) int {
	best, run := 0, 0
	for _, a := range answers {
		if !a.IsCorrect {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

var ErrMalformedSession = errors.New("malformed session payload")

// DecodeSession parses a serialized session handed back by a client.
func DecodeSession(payload []byte) (models.QuizSession, error) {
	var s models.QuizSession
	if err := json.Unmarshal(payload, &s); err != nil {
		return models.QuizSession{}, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	if s.Score < 0 || s.Score > len(s.Items) {
		return models.QuizSession{}, fmt.Errorf("%w: score %d out of range for %d items", ErrMalformedSession, s.Score, len(s.Items))
	}
	if s.CurrentIndex < 0 || s.CurrentIndex > len(s.Items) {
		return models.QuizSession{}, fmt.Errorf("%w: current index %d out of range", ErrMalformedSession, s.CurrentIndex)
	}
	if s.Answers == nil {
		s.Answers = []models.QuizAnswer{}
	}
	return s, nil
}
