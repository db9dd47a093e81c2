package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	"github.com/Mystic-Slice/artist-recommendation-backend/database"
	"github.com/Mystic-Slice/artist-recommendation-backend/pipeline"
	"github.com/Mystic-Slice/artist-recommendation-backend/queue"
	"github.com/Mystic-Slice/artist-recommendation-backend/server"
	"github.com/Mystic-Slice/artist-recommendation-backend/services"
	"github.com/Mystic-Slice/artist-recommendation-backend/storage"
	"github.com/Mystic-Slice/artist-recommendation-backend/vectorstore"
	"github.com/Mystic-Slice/artist-recommendation-backend/worker"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx := context.Background()

	taskQueue, err := queue.New(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer taskQueue.Close()

	var blobs storage.BlobStore
	var uploadsDir string
	switch cfg.Storage.Backend {
	case "minio":
		minioStore, err := storage.NewMinioStore(cfg.Storage.Minio)
		if err != nil {
			logger.Fatal("failed to create object store", zap.Error(err))
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			logger.Fatal("failed to ensure bucket", zap.Error(err))
		}
		blobs = minioStore
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.UploadsDir, cfg.Server.PublicBaseURL)
		if err != nil {
			logger.Fatal("failed to create uploads directory", zap.Error(err))
		}
		blobs = localStore
		uploadsDir = localStore.Dir()
	}

	embedder := services.NewOpenAIEmbedder(cfg.OpenAI)
	store := vectorstore.NewQdrantStore(cfg.Qdrant, embedder, logger)

	ensureCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := store.EnsureCollection(ensureCtx); err != nil {
		cancel()
		logger.Fatal("failed to ensure collection", zap.Error(err))
	}
	cancel()

	transcriber := services.NewTranscriptionService(cfg.HuggingFace, logger)
	describer := services.NewDescriptionService(services.NewKindoClient(cfg.Kindo), logger)
	pipe := pipeline.New(transcriber, describer, store, logger)

	pool := worker.New(taskQueue, pipe, cfg.WorkerCount, logger)
	pool.Start(ctx)

	srv := server.New(pipe, taskQueue, blobs, database.NewGormUserStore(db), *cfg, uploadsDir, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 30*time.Second)
	defer cancelShutdown()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	pool.Stop()
}
