package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/services"
	"github.com/vytor/neuroquiz/internal/testutil/mocks"
)

func TestReviewService_NothingToReview(t *testing.T) {
	lister := new(mocks.MockMissedLister)
	lister.On("List", mock.Anything).Return([]models.QuizItem{}, nil)

	status := services.NewReviewService(lister).StartReview(context.Background())

	assert.False(t, status.Available)
	assert.Zero(t, status.ItemCount)
	assert.Equal(t, services.MsgNothingToReview, status.Message)
}

func TestReviewService_StubWithItems(t *testing.T) {
	lister := new(mocks.MockMissedLister)
	lister.On("List", mock.Anything).Return([]models.QuizItem{{ID: "derm-01"}, {ID: "myo-04"}}, nil)

	status := services.NewReviewService(lister).StartReview(context.Background())

	assert.False(t, status.Available)
	assert.Equal(t, 2, status.ItemCount)
	assert.Equal(t, services.MsgReviewNotAvailable, status.Message)
}

func TestReviewService_ReadFailureIsEmpty(t *testing.T) {
	lister := new(mocks.MockMissedLister)
	lister.On("List", mock.Anything).Return(nil, errors.New("database is locked"))
	svc := services.NewReviewService(lister)

	items := svc.MissedItems(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, services.MsgNothingToReview, svc.StartReview(context.Background()).Message)
}
