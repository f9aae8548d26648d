package jobs

import "github.com/vytor/neuroquiz/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueSaveMissed schedules a best-effort merge of items into the
	// missed-items store. It never blocks.
	EnqueueSaveMissed(sessionID string, items []models.QuizItem) error
}
