// The interest runner performs a single interest accrual pass over every
// account and exits. It is intended to be invoked on a schedule (cron or
// similar); there is no built-in cadence guard, so each invocation compounds.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

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
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("interest_runner")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	auditLog, err := audit.New(cfg.Audit.Dir, log)
	if err != nil {
		log.Error("Failed to initialize audit log", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := buildStore(ctx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize storage backend", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore(ctx)

	// Accruing against an unloaded working set would silently credit no one,
	// so a load failure is fatal here, unlike the API server.
	b := bank.New(log, store, auditLog)
	if err := b.Load(ctx); err != nil {
		log.Error("Failed to load persisted state, refusing to run accrual", "error", err)
		os.Exit(1)
	}

	engine := interest.NewEngine(log, b, auditLog)
	summary, err := engine.Run(ctx)
	if err != nil {
		log.Error("Interest accrual pass failed", "error", err)
		os.Exit(1)
	}

	log.Info("Interest accrual run finished",
		"accounts_seen", summary.AccountsSeen,
		"credited", summary.Credited,
		"total_interest", summary.TotalInterest)
}

// buildStore selects the persistence backend from configuration, mirroring
// the API server's bootstrap.
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
