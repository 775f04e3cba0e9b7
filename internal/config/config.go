// Package config provides configuration structures and validation for the
// application: HTTP server settings, storage backend selection, database
// connections and audit log placement.
package config

import (
	"errors"
	"strings"
	"time"
)

// Storage backend selectors.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds the complete application configuration. Each field covers one
// subsystem and is validated during startup; database blocks are only
// validated when the selected backend needs them.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Storage     StorageConfig
	Postgres    PostgresConfig
	Mongo       MongoConfig
	Audit       AuditConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StorageConfig selects the persistence backend and where the flat-file
// backend keeps its data files.
type StorageConfig struct {
	Backend string // "file" or "postgres"
	DataDir string // Flat-file data directory
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoConfig configures the optional ledger archive. When ArchiveEnabled
// is false the relational backend does not persist transaction history.
type MongoConfig struct {
	ArchiveEnabled  bool
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// AuditConfig contains audit log configuration
type AuditConfig struct {
	Dir string // Directory holding audit.log
}

// validate checks all configuration values relevant to the selected
// backend, collecting readable error messages.
func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if c.Audit.Dir == "" {
		validationErrors = append(validationErrors, "AUDIT_LOG_DIR is required")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataDir == "" {
			validationErrors = append(validationErrors, "STORAGE_DATA_DIR is required for the file backend")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
		if c.Postgres.MigrationsPath == "" {
			validationErrors = append(validationErrors, "POSTGRES_MIGRATIONS_PATH is required")
		}
		if c.Mongo.ArchiveEnabled {
			if c.Mongo.URI == "" {
				validationErrors = append(validationErrors, "MONGO_URI is required when the ledger archive is enabled")
			}
			if c.Mongo.Database == "" {
				validationErrors = append(validationErrors, "MONGO_DATABASE is required when the ledger archive is enabled")
			}
			if c.Mongo.Timeout <= 0 {
				validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
			}
			if c.Mongo.MaxPoolSize <= 0 {
				validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
			}
		}
	default:
		validationErrors = append(validationErrors, "STORAGE_BACKEND must be one of: file, postgres")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
