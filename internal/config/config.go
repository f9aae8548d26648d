package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/neuroquiz/internal/logger"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Addr                    string
	DBPath                  string
	LogLevel                string
	StoreBackend            string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	ContentDir              string
	QuestionsPerSession     int
	QuestionTimeSeconds     int
	FeedbackDelayMs         int
	// SessionRetentionSeconds is how long a finished session stays readable.
	SessionRetentionSeconds int
	SaveWorkerCount         int
	SaveQueueSize           int
	CORSOrigins             []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                    envOr("ADDR", ":8080"),
		DBPath:                  envOr("DB_PATH", "file:neuroquiz.db"),
		LogLevel:                envOr("LOG_LEVEL", "INFO"),
		StoreBackend:            strings.ToLower(envOr("STORE_BACKEND", BackendSQLite)),
		RedisAddr:               envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 envIntOr("REDIS_DB", 0),
		ContentDir:              os.Getenv("CONTENT_DIR"),
		QuestionsPerSession:     envIntOr("QUESTIONS_PER_SESSION", 10),
		QuestionTimeSeconds:     envIntOr("QUESTION_TIME_SECONDS", 30),
		FeedbackDelayMs:         envIntOr("FEEDBACK_DELAY_MS", 2500),
		SessionRetentionSeconds: envIntOr("SESSION_RETENTION_SECONDS", 300),
		SaveWorkerCount:         envIntOr("SAVE_WORKER_COUNT", 1),
		SaveQueueSize:           envIntOr("SAVE_QUEUE_SIZE", 16),
		CORSOrigins:             splitList(envOr("CORS_ORIGINS", "*")),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch c.StoreBackend {
	case BackendSQLite:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR cannot be empty when STORE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q (got %q)", BackendSQLite, BackendRedis, c.StoreBackend))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must be >= 0 (got %d)", c.RedisDB))
	}
	if c.ContentDir != "" {
		if st, err := os.Stat(c.ContentDir); err != nil || !st.IsDir() {
			errs = append(errs, fmt.Errorf("CONTENT_DIR %q is not a readable directory", c.ContentDir))
		}
	}
	if c.QuestionsPerSession < 1 {
		errs = append(errs, fmt.Errorf("QUESTIONS_PER_SESSION must be >= 1 (got %d)", c.QuestionsPerSession))
	}
	if c.QuestionTimeSeconds < 1 {
		errs = append(errs, fmt.Errorf("QUESTION_TIME_SECONDS must be >= 1 (got %d)", c.QuestionTimeSeconds))
	}
	if c.FeedbackDelayMs < 0 {
		errs = append(errs, fmt.Errorf("FEEDBACK_DELAY_MS must be >= 0 (got %d)", c.FeedbackDelayMs))
	}
	if c.SessionRetentionSeconds < 1 {
		errs = append(errs, fmt.Errorf("SESSION_RETENTION_SECONDS must be >= 1 (got %d)", c.SessionRetentionSeconds))
	}
	if c.SaveWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("SAVE_WORKER_COUNT must be >= 1 (got %d)", c.SaveWorkerCount))
	}
	if c.SaveQueueSize < 1 {
		errs = append(errs, fmt.Errorf("SAVE_QUEUE_SIZE must be >= 1 (got %d)", c.SaveQueueSize))
	}

	return errors.Join(errs...)
}

func (c Config) QuestionBudget() time.Duration {
	return time.Duration(c.QuestionTimeSeconds) * time.Second
}

func (c Config) FeedbackDelay() time.Duration {
	return time.Duration(c.FeedbackDelayMs) * time.Millisecond
}

func (c Config) SessionRetention() time.Duration {
	return time.Duration(c.SessionRetentionSeconds) * time.Second
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
