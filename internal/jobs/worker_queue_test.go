package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/worker"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved [][]models.QuizItem
	err   error
}

func (s *recordingSaver) Save(_ context.Context, items []models.QuizItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, items)
	return len(items), s.err
}

func TestWorkerQueue_SavesOnPool(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	saver := &recordingSaver{}
	q := NewWorkerQueue(pool, saver)

	items := []models.QuizItem{{ID: "derm-01", Options: []models.QuizOption{{ID: "a"}}}}
	require.NoError(t, q.EnqueueSaveMissed("s1", items))
	items[0].Options[0].ID = "mutated"
	pool.Stop()

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "derm-01", saver.saved[0][0].ID)
	assert.Equal(t, "a", saver.saved[0][0].Options[0].ID)
}

func TestWorkerQueue_ClosedPool(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Stop()
	q := NewWorkerQueue(pool, &recordingSaver{})

	assert.ErrorIs(t, q.EnqueueSaveMissed("s1", nil), worker.ErrPoolClosed)
}

func TestSaveMissedJob_PropagatesError(t *testing.T) {
	job := &SaveMissedJob{Saver: &recordingSaver{err: errors.New("disk full")}, SessionID: "s1"}
	assert.EqualError(t, job.Run(context.Background()), "disk full")
	assert.Equal(t, "save_missed", job.Name())
}
