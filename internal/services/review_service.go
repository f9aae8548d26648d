package services

import (
	"context"

	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
)

const (
	MsgNothingToReview    = "You have no items to review!"
	MsgReviewNotAvailable = "Review mode is not available yet. Your missed items are saved for later practice."
)

// MissedLister reads the stored missed items.
type MissedLister interface {
	List(ctx context.Context) ([]models.QuizItem, error)
}

// ReviewStatus answers a request to review missed items.
type ReviewStatus struct {
	Available bool   `json:"available"`
	ItemCount int    `json:"itemCount"`
	Message   string `json:"message"`
}

// ReviewService handles the missed-items list. Review sessions themselves
// are not implemented.
type ReviewService interface {
	MissedItems(ctx context.Context) []models.QuizItem
	StartReview(ctx context.Context) ReviewStatus
}

type reviewService struct {
	missed MissedLister
}

// NewReviewService creates a new ReviewService
func NewReviewService(missed MissedLister) ReviewService {
	return &reviewService{missed: missed}
}

// MissedItems treats a storage failure as an empty list.
func (s *reviewService) MissedItems(ctx context.Context) []models.QuizItem {
	log := logger.FromContext(ctx)
	log.Debug("listing missed items")

	items, err := s.missed.List(ctx)
	if err != nil {
		log.Error("failed to read missed items: %v", err)
		return []models.QuizItem{}
	}
	return items
}

func (s *reviewService) StartReview(ctx context.Context) ReviewStatus {
	items := s.MissedItems(ctx)
	if len(items) == 0 {
		return ReviewStatus{Message: MsgNothingToReview}
	}
	return ReviewStatus{ItemCount: len(items), Message: MsgReviewNotAvailable}
}
