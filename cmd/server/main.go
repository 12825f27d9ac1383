package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/NeGaTiVe369/DocLearn-sub000/api"
	dbfs "github.com/NeGaTiVe369/DocLearn-sub000/db"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/avatar"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/config"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/db"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/jobs"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/repository/sqlite"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/schema"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	log.Printf("Starting DocLearn server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply migrations
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(conn, logger)

	schemas, err := schema.NewLoader(ctx, repo)
	if err != nil {
		log.Fatalf("Failed to load validation schemas: %v", err)
	}

	avatarSvc := avatar.NewService(repo, nil, avatar.Config{
		Retention:    cfg.Avatar.Retention,
		FetchRetries: cfg.Avatar.FetchRetries,
		FetchBackoff: cfg.Avatar.FetchBackoff,
		FetchTimeout: cfg.Avatar.FetchTimeout,
		MaxBlobSize:  cfg.Avatar.MaxBlobSize,
	}, logger)

	// Background workers
	jobRepo := jobs.NewRepository(conn)
	handlers := map[string]jobs.Handler{
		jobs.TypeAvatarSweep:     jobs.NewAvatarSweepHandler(avatarSvc, logger),
		jobs.TypeModerationApply: jobs.NewModerationApplyHandler(repo, repo, logger),
	}
	workerCtx, stopWorkers := context.WithCancel(ctx)
	pool := jobs.NewWorkerPool(jobRepo, handlers, logger, 4)
	pool.Start(workerCtx)

	// Startup sweep, then a recurring one per interval
	if n, err := avatarSvc.ClearOldAvatars(ctx); err != nil {
		logger.Error("startup avatar sweep failed", slog.Any("err", err))
	} else if n > 0 {
		logger.Info("startup avatar sweep", slog.Int64("removed", n))
	}
	sweepTicker := time.NewTicker(cfg.Avatar.SweepInterval)
	go func() {
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-sweepTicker.C:
				if _, err := pool.Enqueue(workerCtx, jobs.TypeAvatarSweep, nil, 200, 3); err != nil {
					logger.Error("enqueue avatar sweep", slog.Any("err", err))
				}
			}
		}
	}()

	repos := api.Repos{
		Accounts:      repo,
		Profiles:      repo,
		Uploads:       repo,
		Announcements: repo,
		Moderation:    repo,
	}
	handler := api.SetupRoutes(cfg, version, buildTime, repos, schemas, pool)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	sweepTicker.Stop()
	stopWorkers()
	pool.Stop()

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
