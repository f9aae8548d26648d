package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroquiz/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                    ":8080",
		DBPath:                  "test.db",
		LogLevel:                "INFO",
		StoreBackend:            config.BackendSQLite,
		RedisAddr:               "localhost:6379",
		QuestionsPerSession:     10,
		QuestionTimeSeconds:     30,
		FeedbackDelayMs:         2500,
		SessionRetentionSeconds: 300,
		SaveWorkerCount:         1,
		SaveQueueSize:           16,
		CORSOrigins:             []string{"*"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "invalid level", level: "INVALID", wantErr: true},
		{name: "empty level", level: "", wantErr: true},
		{name: "lowercase valid level", level: "debug", wantErr: false},
		{name: "warn", level: "WARN", wantErr: false},
		{name: "error", level: "ERROR", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_StoreBackend(t *testing.T) {
	cfg := validConfig()
	cfg.StoreBackend = "etcd"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")

	cfg = validConfig()
	cfg.StoreBackend = config.BackendRedis
	cfg.RedisAddr = ""
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")

	cfg.RedisAddr = "cache:6379"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ContentDirMustExist(t *testing.T) {
	cfg := validConfig()
	cfg.ContentDir = "/definitely/not/here/neuroquiz"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CONTENT_DIR")

	cfg.ContentDir = t.TempDir()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_QuizLimits(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{"zero questions", func(c *config.Config) { c.QuestionsPerSession = 0 }, "QUESTIONS_PER_SESSION"},
		{"zero question time", func(c *config.Config) { c.QuestionTimeSeconds = 0 }, "QUESTION_TIME_SECONDS"},
		{"negative feedback delay", func(c *config.Config) { c.FeedbackDelayMs = -1 }, "FEEDBACK_DELAY_MS"},
		{"zero session retention", func(c *config.Config) { c.SessionRetentionSeconds = 0 }, "SESSION_RETENTION_SECONDS"},
		{"zero save workers", func(c *config.Config) { c.SaveWorkerCount = 0 }, "SAVE_WORKER_COUNT"},
		{"zero save queue", func(c *config.Config) { c.SaveQueueSize = 0 }, "SAVE_QUEUE_SIZE"},
		{"negative redis db", func(c *config.Config) { c.RedisDB = -2 }, "REDIS_DB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		StoreBackend: config.BackendSQLite,
		LogLevel:     "INVALID",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "QUESTIONS_PER_SESSION")
	assert.Contains(t, errStr, "QUESTION_TIME_SECONDS")
	assert.Contains(t, errStr, "SAVE_WORKER_COUNT")
	assert.Contains(t, errStr, "SAVE_QUEUE_SIZE")
	assert.Contains(t, errStr, "SESSION_RETENTION_SECONDS")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("STORE_BACKEND", "REDIS")
	t.Setenv("QUESTIONS_PER_SESSION", "5")
	t.Setenv("FEEDBACK_DELAY_MS", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 5, cfg.QuestionsPerSession)
	assert.Equal(t, 2500, cfg.FeedbackDelayMs)
	assert.Equal(t, 300, cfg.SessionRetentionSeconds)
	assert.Equal(t, 5*time.Minute, cfg.SessionRetention())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
