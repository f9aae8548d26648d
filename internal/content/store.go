// Package content holds the bundled, read-only quiz items and the randomized
// sampling used to build sessions.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/neuroquiz/internal/models"
)

//go:embed data/*.json
var bundledFS embed.FS

// Datasets are concatenated in this order; topic order follows from it.
var datasetFiles = []string{
	"dermatomes.json",
	"myotomes.json",
	"major-nerves.json",
}

// Store is an immutable view over all quiz items. It is safe for concurrent use.
type Store struct {
	items  []models.QuizItem
	topics []models.Topic

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Store.
type Option func(*Store)

// WithRand makes sampling deterministic for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		s.rng = r
	}
}

// Load reads the datasets bundled into the binary.
func Load(opts ...Option) (*Store, error) {
	sub, err := fs.Sub(bundledFS, "data")
	if err != nil {
		return nil, err
	}
	return LoadFrom(sub, opts...)
}

// LoadFrom reads the three topic datasets from fsys.
func LoadFrom(fsys fs.FS, opts ...Option) (*Store, error) {
	var all []models.QuizItem
	for _, name := range datasetFiles {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", name, err)
		}
		var items []models.QuizItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode dataset %s: %w", name, err)
		}
		all = append(all, items...)
	}
	return New(all, opts...)
}

// New builds a store from items after checking every item is well formed.
func New(items []models.QuizItem, opts ...Option) (*Store, error) {
	seen := make(map[string]bool, len(items))
	topicSeen := make(map[models.Topic]bool)
	s := &Store{}

	for _, it := range items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if !topicSeen[it.Topic] {
			topicSeen[it.Topic] = true
			s.topics = append(s.topics, it.Topic)
		}
		s.items = append(s.items, it.Clone())
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		now := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(now, now>>17|1))
	}
	return s, nil
}

func validateItem(it models.QuizItem) error {
	if it.ID == "" {
		return fmt.Errorf("item with prompt %q has no id", it.PromptValue)
	}
	if !it.Topic.Valid() {
		return fmt.Errorf("item %s: unknown topic %q", it.ID, it.Topic)
	}
	if !it.PromptType.Valid() {
		return fmt.Errorf("item %s: unknown prompt type %q", it.ID, it.PromptType)
	}
	if n := it.CorrectCount(); n != 1 {
		return fmt.Errorf("item %s: expected exactly one correct option, found %d", it.ID, n)
	}
	ids := make(map[string]bool, len(it.Options))
	for _, o := range it.Options {
		if ids[o.ID] {
			return fmt.Errorf("item %s: duplicate option id %q", it.ID, o.ID)
		}
		ids[o.ID] = true
	}
	return nil
}

// AllTopics returns the distinct topics in first-seen order.
func (s *Store) AllTopics() []models.Topic {
	return append([]models.Topic(nil), s.topics...)
}

// Len is the total number of items across topics.
func (s *Store) Len() int {
	return len(s.items)
}

// ItemsByTopic returns copies of every item for topic. Unknown topics yield an empty slice.
func (s *Store) ItemsByTopic(topic models.Topic) []models.QuizItem {
	out := []models.QuizItem{}
	for _, it := range s.items {
		if it.Topic == topic {
			out = append(out, it.Clone())
		}
	}
	return out
}

// RandomItems returns up to count distinct items of topic in uniformly random order.
// Fewer items come back when the topic does not have enough.
func (s *Store) RandomItems(topic models.Topic, count int) []models.QuizItem {
	items := s.ItemsByTopic(topic)
	s.mu.Lock()
	shuffle(s.rng, items)
	s.mu.Unlock()

	if count < 0 {
		count = 0
	}
	if count > len(items) {
		count = len(items)
	}
	return items[:count]
}

// ShuffleOptions returns a copy of item with its options permuted. item is left untouched.
func (s *Store) ShuffleOptions(item models.QuizItem) models.QuizItem {
	out := item.Clone()
	s.mu.Lock()
	shuffle(s.rng, out.Options)
	s.mu.Unlock()
	return out
}

// shuffle is Fisher–Yates.
func shuffle[T any](r *rand.Rand, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
