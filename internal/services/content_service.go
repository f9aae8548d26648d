package services

import (
	"context"
	"strings"

	"github.com/vytor/neuroquiz/internal/content"
	"github.com/vytor/neuroquiz/internal/errors"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
)

// ContentSource is the read side of the content store.
type ContentSource interface {
	AllTopics() []models.Topic
	ItemsByTopic(topic models.Topic) []models.QuizItem
}

// ContentService exposes the bundled quiz content
type ContentService interface {
	ListTopics(ctx context.Context) ([]models.TopicSummary, error)
	TopicItems(ctx context.Context, topic string) ([]models.QuizItem, error)
	ResolveImage(ctx context.Context, key string) (content.ImageRef, error)
}

type contentService struct {
	source ContentSource
}

// NewContentService creates a new ContentService
func NewContentService(source ContentSource) ContentService {
	return &contentService{source: source}
}

func (s *contentService) ListTopics(ctx context.Context) ([]models.TopicSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing topics")

	topics := s.source.AllTopics()
	out := make([]models.TopicSummary, 0, len(topics))
	for _, t := range topics {
		out = append(out, models.TopicSummary{Topic: t, ItemCount: len(s.source.ItemsByTopic(t))})
	}
	return out, nil
}

// TopicItems returns an empty list for topics that have no content.
func (s *contentService) TopicItems(ctx context.Context, topic string) ([]models.QuizItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing items: topic=%s", topic)

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.NewValidationError("topic", "cannot be empty")
	}
	return s.source.ItemsByTopic(models.Topic(topic)), nil
}

func (s *contentService) ResolveImage(ctx context.Context, key string) (content.ImageRef, error) {
	logger.FromContext(ctx).Debug("resolving image: key=%s", key)

	if strings.TrimSpace(key) == "" {
		return content.ImageRef{}, errors.NewValidationError("key", "cannot be empty")
	}
	return content.ResolveImage(key), nil
}
