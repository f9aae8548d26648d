package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/vytor/neuroquiz/internal/api"
	"github.com/vytor/neuroquiz/internal/config"
	"github.com/vytor/neuroquiz/internal/content"
	"github.com/vytor/neuroquiz/internal/db"
	"github.com/vytor/neuroquiz/internal/jobs"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/quiz"
	"github.com/vytor/neuroquiz/internal/repository"
	"github.com/vytor/neuroquiz/internal/repository/redis"
	"github.com/vytor/neuroquiz/internal/repository/sqlite"
	"github.com/vytor/neuroquiz/internal/results"
	"github.com/vytor/neuroquiz/internal/services"
	"github.com/vytor/neuroquiz/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("NeuroQuiz Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_backend=%s", cfg.StoreBackend)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("content_dir=%q", cfg.ContentDir)
	log.Debug("questions_per_session=%d", cfg.QuestionsPerSession)
	log.Debug("question_time_seconds=%d", cfg.QuestionTimeSeconds)
	log.Debug("feedback_delay_ms=%d", cfg.FeedbackDelayMs)
	log.Debug("session_retention_seconds=%d", cfg.SessionRetentionSeconds)
	log.Debug("save_worker_count=%d", cfg.SaveWorkerCount)
	log.Debug("save_queue_size=%d", cfg.SaveQueueSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := loadContent(cfg)
	if err != nil {
		log.Error("failed to load quiz content: %v", err)
		os.Exit(1)
	}
	log.Info("loaded %d quiz items across %d topics", store.Len(), len(store.AllTopics()))

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open %s store: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing %s store", cfg.StoreBackend)
		if err := closeStore(); err != nil {
			log.Warn("error closing store: %v", err)
		}
	}()

	missed := results.NewMissedStore(kv)
	savePool := worker.NewPool(cfg.SaveWorkerCount, cfg.SaveQueueSize)
	pipeline := results.NewPipeline(jobs.NewWorkerQueue(savePool, missed))

	engine := quiz.NewEngine(quiz.Config{
		QuestionsPerSession: cfg.QuestionsPerSession,
		QuestionBudget:      cfg.QuestionBudget(),
		FeedbackDelay:       cfg.FeedbackDelay(),
		TickInterval:        time.Second,
		RetainCompleted:     cfg.SessionRetention(),
	}, store, quiz.WithCompletion(pipeline.Complete))

	srv := &api.Server{
		ContentService: services.NewContentService(store),
		QuizService:    services.NewQuizService(engine, time.Now),
		ReviewService:  services.NewReviewService(missed),
		Store:          kv,
		CORSOrigins:    cfg.CORSOrigins,
		StreamInterval: 250 * time.Millisecond,
	}

	savePool.Start(ctx)
	engine.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Stop the engine first so no completion can enqueue into a closed pool.
	log.Debug("stopping quiz engine")
	engine.Stop()
	log.Debug("draining save pool")
	savePool.Stop()

	log.Info("===========================================")
	log.Info("NeuroQuiz Server Stopped")
	log.Info("===========================================")
}

func loadContent(cfg config.Config) (*content.Store, error) {
	if cfg.ContentDir == "" {
		return content.Load()
	}
	var fsys fs.FS = os.DirFS(cfg.ContentDir)
	return content.LoadFrom(fsys)
}

func openStore(ctx context.Context, cfg config.Config) (repository.KVStore, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		kv, err := redis.NewKVRepository(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return kv, client.Close, nil
	default:
		database, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewKVRepository(database.DB), database.Close, nil
	}
}
