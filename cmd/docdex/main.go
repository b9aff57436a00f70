package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/modaic-ai/modaic-antm/internal/config"
	"github.com/modaic-ai/modaic-antm/internal/db"
	dbPostgres "github.com/modaic-ai/modaic-antm/internal/db/postgres"
	dbRedis "github.com/modaic-ai/modaic-antm/internal/db/redis"
	"github.com/modaic-ai/modaic-antm/internal/domain"
	logpkg "github.com/modaic-ai/modaic-antm/internal/logger"
	"github.com/modaic-ai/modaic-antm/internal/metrics"
	collectionrepo "github.com/modaic-ai/modaic-antm/internal/repository/collection"
	"github.com/modaic-ai/modaic-antm/internal/repository/embcache"
	searchrepo "github.com/modaic-ai/modaic-antm/internal/repository/search"
	chiTransport "github.com/modaic-ai/modaic-antm/internal/transport/chi"
	openaiEmb "github.com/modaic-ai/modaic-antm/internal/transport/openai"
	"github.com/modaic-ai/modaic-antm/internal/usecase/collection"
	healthuc "github.com/modaic-ai/modaic-antm/internal/usecase/health"
	searchuc "github.com/modaic-ai/modaic-antm/internal/usecase/search"
	"github.com/modaic-ai/modaic-antm/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Create vector store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	case "postgres":
		store, err = dbPostgres.NewStore(dbPostgres.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Embedder chain: OpenAI -> Cached -> Instruction
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	cached, err := embcache.New(
		base, store, cfg.Embedding.Model, cfg.Embedding.CacheSize,
		metrics.EmbeddingCacheTotal, logger,
	)
	if err != nil {
		logger.Fatal("Failed to create embedding cache", zap.Error(err))
	}

	var queryEmbedder domain.Embedder = cached
	if cfg.Embedding.QueryInstruction != "" {
		queryEmbedder = domain.NewInstructionEmbedder(cached, cfg.Embedding.QueryInstruction)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	collRepo := collectionrepo.New(store, cfg.Retrieval.DefaultVectorDim)
	searchRepo := searchrepo.New(store)

	// Use case services
	searchSvc := searchuc.New(searchRepo, collRepo, queryEmbedder, logger).
		WithConcurrency(cfg.Retrieval.Concurrency)
	collSvc := collection.New(collRepo)
	healthSvc := healthuc.New(store, base)

	server := chiTransport.
		NewServer(searchSvc, collSvc, healthSvc, logger).
		WithSemanticWeight(cfg.Retrieval.SemanticWeight)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
