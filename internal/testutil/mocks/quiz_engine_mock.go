package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/quiz"
)

// MockQuizEngine is a mock implementation of services.QuizEngine
type MockQuizEngine struct {
	mock.Mock
}

func (m *MockQuizEngine) StartSession(ctx context.Context, topic models.Topic) (quiz.Snapshot, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).(quiz.Snapshot), args.Error(1)
}

func (m *MockQuizEngine) Select(ctx context.Context, sessionID, optionID string) (quiz.Snapshot, models.QuizAnswer, error) {
	args := m.Called(ctx, sessionID, optionID)
	return args.Get(0).(quiz.Snapshot), args.Get(1).(models.QuizAnswer), args.Error(2)
}

func (m *MockQuizEngine) Get(ctx context.Context, sessionID string) (quiz.Snapshot, models.QuizSession, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(quiz.Snapshot), args.Get(1).(models.QuizSession), args.Error(2)
}

func (m *MockQuizEngine) Abandon(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
