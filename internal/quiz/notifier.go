package quiz

import (
	"context"

	"github.com/vytor/neuroquiz/internal/logger"
)

// LogNotifier stands in for device haptics by logging each answer.
type LogNotifier struct{}

func (LogNotifier) AnswerSelected(ctx context.Context, sessionID string, correct bool) {
	feedback := "error"
	if correct {
		feedback = "success"
	}
	logger.FromContext(ctx).WithField("session_id", sessionID).Debug("answer feedback: %s", feedback)
}
