package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/program-pipeline/internal/api"
	"alcyxob/program-pipeline/internal/config"
	"alcyxob/program-pipeline/internal/generator"
	"alcyxob/program-pipeline/internal/guardian"
	"alcyxob/program-pipeline/internal/llm"
	"alcyxob/program-pipeline/internal/logger"
	"alcyxob/program-pipeline/internal/repository/mongo"
	"alcyxob/program-pipeline/internal/service"
	"alcyxob/program-pipeline/internal/storage"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// Logger is not configured yet
		bootLog, _ := logger.New("development")
		bootLog.Fatal("could not load config", "error", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		os.Stderr.WriteString("could not build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("starting program pipeline server", "address", cfg.Server.Address, "model", cfg.LLM.Model)

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set")
	}

	rootCtx := context.Background()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(rootCtx, cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(rootCtx, 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureGenerationIndexes(ctx, appDB); err != nil {
			log.Error("index creation failed", "error", err)
			return
		}
		log.Info("database indexes ensured")
	}()

	// --- Initialize Storage ---
	var artifactStore storage.ArtifactStorage
	if cfg.S3.BucketName != "" {
		artifactStore, err = storage.NewS3Storage(rootCtx, cfg.S3, log)
		if err != nil {
			log.Fatal("failed to initialize S3 storage", "error", err)
		}
	} else {
		log.Warn("s3.bucket_name not set; pipeline artifacts will not be archived")
	}

	// --- Pipeline ---
	textClient, err := llm.NewClient(cfg.LLM, log)
	if err != nil {
		log.Fatal("failed to initialize generative text client", "error", err)
	}
	programGenerator := generator.NewRetryingGenerator(
		generator.NewProgramGenerator(textClient, textClient.Model(), log),
		generator.RetryPolicy{
			MaxAttempts:     cfg.Pipeline.MaxAttempts,
			InitialInterval: cfg.Pipeline.RetryInitialInterval,
			MaxInterval:     cfg.Pipeline.RetryMaxInterval,
		},
		log,
	)

	generationService := service.NewGenerationService(
		mongo.NewMongoGenerationRepository(appDB),
		programGenerator,
		guardian.New(log),
		artifactStore,
		service.Options{
			ArchiveArtifacts: cfg.Pipeline.ArchiveArtifacts,
			RunTimeout:       cfg.Pipeline.RunTimeout,
			PresignExpiry:    cfg.S3.PresignExpiry,
		},
		log,
	)

	// --- HTTP ---
	router := api.NewRouter(log)
	api.SetupRoutes(router, cfg.JWT.Secret, generationService, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()
	log.Info("server listening", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(rootCtx, cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	// Runs still in flight are left in processing if they do not finish in time.
	if err := generationService.Wait(ctxShutdown); err != nil {
		log.Warn("background generations still running at exit", "error", err)
	}

	log.Info("server exiting")
}
