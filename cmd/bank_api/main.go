package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bank-management-core/internal/api"
	"github.com/bank-management-core/internal/audit"
	"github.com/bank-management-core/internal/bank"
	"github.com/bank-management-core/internal/config"
	"github.com/bank-management-core/internal/data/flatfile"
	"github.com/bank-management-core/internal/data/mongoarchive"
	"github.com/bank-management-core/internal/data/postgres"
	"github.com/bank-management-core/internal/interest"
	"github.com/bank-management-core/internal/logger"
	"github.com/bank-management-core/internal/platform/persistence"
	"github.com/bank-management-core/internal/storage"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("bank_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize audit trail
	auditLog, err := audit.New(cfg.Audit.Dir, log)
	if err != nil {
		log.Error("Failed to initialize audit log", "error", err)
		os.Exit(1)
	}

	// Initialize the configured storage backend
	store, closeStore, err := buildStore(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize storage backend", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	// Load persisted state; an unreachable backend means an empty start,
	// never a crash.
	b := bank.New(log, store, auditLog)
	if err := b.Load(appCtx); err != nil {
		log.Warn("Could not load persisted state, starting with an empty data set", "error", err)
	}

	engine := interest.NewEngine(log, b, auditLog)

	// Initialize REST server
	server := api.NewServer(log, cfg, b, engine)
	log.Info("REST server initialized", "backend", cfg.Storage.Backend)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Flush the working set one last time before closing connections.
	if err := b.Save(shutdownCtx); err != nil {
		log.Error("Error persisting state on shutdown", "error", err)
	}

	closeStore(shutdownCtx)

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}

// buildStore selects the persistence backend from configuration: flat files
// under a data directory, or PostgreSQL with an optional MongoDB ledger
// archive. The returned closer releases whatever connections were opened.
func buildStore(ctx context.Context, log *slog.Logger, cfg *config.Config) (storage.Store, func(context.Context), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		st, err := flatfile.New(cfg.Storage.DataDir, log)
		if err != nil {
			return nil, nil, err
		}
		return st, func(context.Context) {}, nil

	case config.BackendPostgres:
		db, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}

		var archive postgres.LedgerArchive
		closer := func(context.Context) { db.Close() }
		if cfg.Mongo.ArchiveEnabled {
			mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.Mongo)
			if err != nil {
				db.Close()
				return nil, nil, err
			}
			archive = mongoarchive.New(log, mongoDB.Database())
			closer = func(shutdownCtx context.Context) {
				db.Close()
				if err := mongoDB.Close(shutdownCtx); err != nil {
					log.Error("Error closing MongoDB connection", "error", err)
				}
			}
		}
		return postgres.New(log, db, archive), closer, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
