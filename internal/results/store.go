package results

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/repository"
)

// MissedStore keeps the de-duplicated list of missed items under
// repository.MissedItemsKey.
type MissedStore struct {
	kv repository.KVStore
	// serialises read-modify-write cycles within this process
	mu sync.Mutex
}

func NewMissedStore(kv repository.KVStore) *MissedStore {
	return &MissedStore{kv: kv}
}

// Save appends the items whose id is not stored yet and returns how many were
// added. Saving the same items twice is a no-op.
func (s *MissedStore) Save(ctx context.Context, items []models.QuizItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(stored))
	for _, it := range stored {
		seen[it.ID] = true
	}
	added := 0
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		stored = append(stored, it.Clone())
		added++
	}
	if added == 0 {
		logger.FromContext(ctx).Debug("no new missed items to store")
		return 0, nil
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return 0, fmt.Errorf("encode missed items: %w", err)
	}
	if err := s.kv.Set(ctx, repository.MissedItemsKey, string(data)); err != nil {
		return 0, fmt.Errorf("write missed items: %w", err)
	}
	return added, nil
}

// List returns the stored missed items, oldest first.
func (s *MissedStore) List(ctx context.Context) ([]models.QuizItem, error) {
	return s.load(ctx)
}

func (s *MissedStore) load(ctx context.Context) ([]models.QuizItem, error) {
	raw, found, err := s.kv.Get(ctx, repository.MissedItemsKey)
	if err != nil {
		return nil, fmt.Errorf("read missed items: %w", err)
	}
	items := []models.QuizItem{}
	if !found || raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode missed items: %w", err)
	}
	return items, nil
}
