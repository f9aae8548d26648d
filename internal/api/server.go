package api

import (
	"context"
	"time"

	"github.com/vytor/neuroquiz/internal/services"
)

// ReadinessChecker reports whether a backing store can serve requests.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers' dependencies.
type Server struct {
	ContentService services.ContentService
	QuizService    services.QuizService
	ReviewService  services.ReviewService
	Store          ReadinessChecker
	CORSOrigins    []string
	RequestTimeout time.Duration
	// StreamInterval is how often a session stream checks for changes.
	StreamInterval time.Duration
}
