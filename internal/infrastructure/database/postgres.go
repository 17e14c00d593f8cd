package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// NotifyChannel is the LISTEN/NOTIFY channel fed by the row triggers
const NotifyChannel = "portfolio_changes"

// migrationLockID serializes schema application across replicas
const migrationLockID = 0x7261746562616773 // "ratebags"

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// PostgresDB owns the connection pool shared by the repositories
type PostgresDB struct {
	db     *sqlx.DB
	dsn    string
	logger *zap.Logger
}

// NewPostgresDB opens the pool and waits for the server to answer,
// retrying while it starts up
func NewPostgresDB(cfg config.DatabaseConfig, logger *zap.Logger) (*PostgresDB, error) {
	dsn := cfg.DSN()

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			db.Close()
			return nil, fmt.Errorf("failed to reach database after %d attempts: %w", attempt, err)
		}
		logger.Warn("Database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(connectBackoff)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
	)

	return &PostgresDB{db: db, dsn: dsn, logger: logger}, nil
}

// Close closes the pool
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// DB returns the pool for repository constructors
func (p *PostgresDB) DB() *sqlx.DB {
	return p.db
}

// DSN returns the connection string, used by the change listener
func (p *PostgresDB) DSN() string {
	return p.dsn
}

// HealthCheck pings the database
func (p *PostgresDB) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Migrate applies the embedded schema inside one transaction. The schema is
// idempotent; the advisory lock keeps concurrent replicas from interleaving.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	p.logger.Info("Database schema applied")
	return nil
}
