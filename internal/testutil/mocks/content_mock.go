package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/neuroquiz/internal/models"
)

// MockContentSource is a mock implementation of services.ContentSource
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) AllTopics() []models.Topic {
	args := m.Called()
	return args.Get(0).([]models.Topic)
}

func (m *MockContentSource) ItemsByTopic(topic models.Topic) []models.QuizItem {
	args := m.Called(topic)
	return args.Get(0).([]models.QuizItem)
}

// MockMissedLister is a mock implementation of services.MissedLister
type MockMissedLister struct {
	mock.Mock
}

func (m *MockMissedLister) List(ctx context.Context) ([]models.QuizItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizItem), args.Error(1)
}
