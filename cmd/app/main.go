package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apostila-generator/internal/config"
	"apostila-generator/internal/domain/ports/adapter"
	aiAdapters "apostila-generator/internal/infra/adapters/ai"
	"apostila-generator/internal/infra/adapters/export"
	storageAdapters "apostila-generator/internal/infra/adapters/storage"
	pg "apostila-generator/internal/infra/db/postgres"
	"apostila-generator/internal/infra/logging"
	"apostila-generator/internal/infra/metrics"
	red "apostila-generator/internal/infra/redis"
	"apostila-generator/internal/infra/web"
	"apostila-generator/internal/infra/worker"
	"apostila-generator/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop model, local storage)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	jobRepo := pg.NewJobRepoCacheDecorator(pg.NewPostgresJobRepo(pool), redisClient, cfg.Redis.TTL)
	apostilaRepo := pg.NewPostgresApostilaRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- AI adapter ----
	var gen adapter.TextGenerator
	switch cfg.AI.Backend {
	case "gemini":
		gen, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
	case "openai":
		gen, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.DefaultModel)
	default:
		gen = aiAdapters.NewNoopAdapter()
	}
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.AI.Backend).Msg("model adapter")
	}
	logger.Info().Str("backend", cfg.AI.Backend).Str("model", gen.ModelName()).Msg("model adapter ready")
	gen = aiAdapters.WithMetrics(gen)

	// ---- Storage ----
	var store adapter.ObjectStorage
	if cfg.Storage.Bucket != "" && !cfg.Runtime.Dev {
		store, err = storageAdapters.NewGCSStorage(ctx, cfg.Storage.Bucket, logger)
	} else {
		store, err = storageAdapters.NewLocalStorage(cfg.Storage.LocalDir, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("object storage")
	}

	// ---- Pipeline and runner ----
	invoker := usecase.NewModelInvoker(gen, cfg.AI.MaxRetries, cfg.AI.RetryDelay, logger)
	exporter := export.NewHTMLExporter("", logger)
	pipeline := usecase.NewPipeline(invoker, exporter, cfg.AI.ChapterDelay, logger)
	runner := usecase.NewRunner(jobRepo, apostilaRepo, txManager, store,
		worker.NewInstrumentedPipeline(pipeline),
		cfg.Jobs.Timeout, cfg.Storage.SignedURLTTL, logger)

	// ---- Workers ----
	workerPool := worker.NewPool(cfg.Jobs.Workers, logger)
	workerPool.Start(ctx)
	processor := worker.NewGenerationProcessor(jobRepo, runner, cfg.Jobs.PollInterval, logger)
	go processor.Start(ctx, workerPool)

	// ---- HTTP ----
	genUC := usecase.NewGenerationUseCase(jobRepo, apostilaRepo, store, cfg.Storage.SignedURLTTL, logger)
	auth := web.NewAuthManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: web.NewServer(genUC, auth, logger).Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	cancel()
	workerPool.Stop()
	logger.Info().Msg("bye")
}
