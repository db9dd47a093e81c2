// Standalone worker binary for deployments that scale ingestion separately
// from the API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	"github.com/Mystic-Slice/artist-recommendation-backend/pipeline"
	"github.com/Mystic-Slice/artist-recommendation-backend/queue"
	"github.com/Mystic-Slice/artist-recommendation-backend/services"
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

	ctx := context.Background()

	taskQueue, err := queue.New(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer taskQueue.Close()

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

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down workers")
	pool.Stop()
}
