package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/vytor/neuroquiz/internal/errors"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
	"github.com/vytor/neuroquiz/internal/quiz"
	"github.com/vytor/neuroquiz/internal/results"
)

// QuizEngine is the part of quiz.Engine the service drives.
type QuizEngine interface {
	StartSession(ctx context.Context, topic models.Topic) (quiz.Snapshot, error)
	Select(ctx context.Context, sessionID, optionID string) (quiz.Snapshot, models.QuizAnswer, error)
	Get(ctx context.Context, sessionID string) (quiz.Snapshot, models.QuizSession, error)
	Abandon(ctx context.Context, sessionID string) error
}

// SelectResult is the outcome of submitting an option.
type SelectResult struct {
	Answer   models.QuizAnswer `json:"answer"`
	Snapshot quiz.Snapshot     `json:"session"`
}

// QuizService handles quiz sessions and their results
type QuizService interface {
	StartQuiz(ctx context.Context, topic string) (quiz.Snapshot, error)
	GetSession(ctx context.Context, id string) (quiz.Snapshot, error)
	SelectOption(ctx context.Context, id, optionID string) (SelectResult, error)
	Results(ctx context.Context, id string) (models.QuizResults, error)
	EndSession(ctx context.Context, id string) error
	// ResultsFromPayload summarizes a session serialized by the client. It
	// never fails: a malformed payload yields an empty view.
	ResultsFromPayload(ctx context.Context, payload []byte) models.QuizResults
}

type quizService struct {
	engine QuizEngine
	now    func() time.Time
}

// NewQuizService creates a new QuizService. A nil clock means time.Now.
func NewQuizService(engine QuizEngine, now func() time.Time) QuizService {
	if now == nil {
		now = time.Now
	}
	return &quizService{engine: engine, now: now}
}

func (s *quizService) StartQuiz(ctx context.Context, topic string) (quiz.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting quiz: topic=%s", topic)

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return quiz.Snapshot{}, errors.NewValidationError("topic", "cannot be empty")
	}

	snap, err := s.engine.StartSession(ctx, models.Topic(topic))
	if err != nil {
		log.Error("failed to start session: %v", err)
		return quiz.Snapshot{}, s.mapError(err, "")
	}
	return snap, nil
}

func (s *quizService) GetSession(ctx context.Context, id string) (quiz.Snapshot, error) {
	logger.FromContext(ctx).Debug("getting session: id=%s", id)

	snap, _, err := s.engine.Get(ctx, id)
	if err != nil {
		return quiz.Snapshot{}, s.mapError(err, id)
	}
	return snap, nil
}

func (s *quizService) SelectOption(ctx context.Context, id, optionID string) (SelectResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting option: session=%s option=%s", id, optionID)

	if strings.TrimSpace(optionID) == "" {
		return SelectResult{}, errors.NewValidationError("optionId", "cannot be empty")
	}

	snap, ans, err := s.engine.Select(ctx, id, optionID)
	if err != nil {
		return SelectResult{}, s.mapError(err, id)
	}
	return SelectResult{Answer: ans, Snapshot: snap}, nil
}

func (s *quizService) Results(ctx context.Context, id string) (models.QuizResults, error) {
	logger.FromContext(ctx).Debug("getting results: session=%s", id)

	_, data, err := s.engine.Get(ctx, id)
	if err != nil {
		return models.QuizResults{}, s.mapError(err, id)
	}
	if !data.IsComplete {
		return models.QuizResults{}, errors.NewConflictError("session is still in progress", nil)
	}
	return results.Summarize(data, s.now()), nil
}

func (s *quizService) EndSession(ctx context.Context, id string) error {
	logger.FromContext(ctx).Debug("ending session: id=%s", id)

	if err := s.engine.Abandon(ctx, id); err != nil {
		return s.mapError(err, id)
	}
	return nil
}

func (s *quizService) ResultsFromPayload(ctx context.Context, payload []byte) models.QuizResults {
	log := logger.FromContext(ctx)

	session, err := results.DecodeSession(payload)
	if err != nil {
		log.Warn("ignoring session payload: %v", err)
		return results.Empty("")
	}
	return results.Summarize(session, s.now())
}

func (s *quizService) mapError(err error, id string) error {
	switch {
	case stderrors.Is(err, quiz.ErrSessionNotFound):
		return errors.NewNotFoundError("session", id)
	case stderrors.Is(err, quiz.ErrAlreadyAnswered):
		return errors.NewConflictError("question already answered", err)
	case stderrors.Is(err, quiz.ErrSessionComplete):
		return errors.NewConflictError("session is complete", err)
	case stderrors.Is(err, quiz.ErrUnknownOption):
		return errors.NewValidationError("optionId", "not an option of the current question")
	default:
		return errors.NewInternalError(err)
	}
}
