package jobs

import (
	"context"

	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/worker"
)

// MissedSaver merges items into durable storage and reports how many were new.
type MissedSaver interface {
	Save(ctx context.Context, items []models.QuizItem) (int, error)
}

// SaveMissedJob persists the missed items of one completed session.
type SaveMissedJob struct {
	Saver     MissedSaver
	SessionID string
	Items     []models.QuizItem
}

func (j *SaveMissedJob) Name() string { return "save_missed" }

func (j *SaveMissedJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("session_id", j.SessionID)
	added, err := j.Saver.Save(ctx, j.Items)
	if err != nil {
		return err
	}
	log.Info("stored %d new missed items (%d submitted)", added, len(j.Items))
	return nil
}

// WorkerQueue implements JobQueue on a worker pool
type WorkerQueue struct {
	pool  *worker.Pool
	saver MissedSaver
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, saver MissedSaver) JobQueue {
	return &WorkerQueue{pool: pool, saver: saver}
}

func (q *WorkerQueue) EnqueueSaveMissed(sessionID string, items []models.QuizItem) error {
	snapshot := make([]models.QuizItem, len(items))
	for i, it := range items {
		snapshot[i] = it.Clone()
	}
	return q.pool.TrySubmit(&SaveMissedJob{
		Saver:     q.saver,
		SessionID: sessionID,
		Items:     snapshot,
	})
}
