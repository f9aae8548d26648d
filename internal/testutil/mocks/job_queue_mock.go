package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/neuroquiz/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSaveMissed(sessionID string, items []models.QuizItem) error {
	args := m.Called(sessionID, items)
	return args.Error(0)
}
