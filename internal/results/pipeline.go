package results

import (
	"context"

	"github.com/vytor/neuroquiz/internal/jobs"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
)

// Pipeline receives every session the quiz engine completes and schedules
// its missed items for storage.
type Pipeline struct {
	queue jobs.JobQueue
}

func NewPipeline(queue jobs.JobQueue) *Pipeline {
	return &Pipeline{queue: queue}
}

// Complete never blocks and never fails; a dropped save is only logged.
func (p *Pipeline) Complete(ctx context.Context, session models.QuizSession) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": session.ID,
		"topic":      session.Topic,
	})

	missed := IncorrectItems(session)
	log.Debug("session finished: score=%d/%d missed=%d", session.Score, len(session.Items), len(missed))
	if len(missed) == 0 {
		return
	}
	if err := p.queue.EnqueueSaveMissed(session.ID, missed); err != nil {
		log.Warn("dropping %d missed items: %v", len(missed), err)
	}
}
