package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oatsaysai/lend-reminder/internal/config"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"go.uber.org/zap"
)

// Connect creates the PostgreSQL connection pool
func Connect(ctx context.Context, cfg config.PostgreSQLConfig) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
		cfg.Schema,
	)

	connectConf, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse PostgreSQL config: %w", err)
	}

	connectConf.MaxConns = int32(cfg.PoolMaxConns)
	connectConf.HealthCheckPeriod = 15 * time.Second
	connectConf.ConnConfig.ConnectTimeout = 5 * time.Second

	// Set timezone to PGX runtime
	if s := os.Getenv("TZ"); s != "" {
		connectConf.ConnConfig.RuntimeParams["timezone"] = s
	}

	pool, err := pgxpool.NewWithConfig(ctx, connectConf)
	if err != nil {
		return nil, fmt.Errorf("unable to create PostgreSQL connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach PostgreSQL: %w", err)
	}

	logger.Log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
	return pool, nil
}

// Migrate sets up the database schema
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	logger.Log.Info("starting database migration")

	loansSchema := `
    CREATE TABLE IF NOT EXISTS loans (
        id UUID PRIMARY KEY,
        owner_id VARCHAR(64) NOT NULL,
        friend_name TEXT NOT NULL,
        amount NUMERIC NOT NULL CHECK (amount > 0),
        currency VARCHAR(3) NOT NULL,
        date_loaned DATE NOT NULL,
        reason TEXT,
        phone_number TEXT,
        email TEXT,
        is_paid BOOLEAN NOT NULL DEFAULT FALSE,
        reminder_count INT NOT NULL DEFAULT 0 CHECK (reminder_count >= 0),
        last_reminder_sent TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_loans_owner_id ON loans(owner_id);
    CREATE INDEX IF NOT EXISTS idx_loans_owner_paid ON loans(owner_id, is_paid);`
	if _, err := pool.Exec(ctx, loansSchema); err != nil {
		return fmt.Errorf("failed to migrate loans table: %w", err)
	}

	// updated_at is written by the store from the service clock; drop the
	// NOW() trigger left behind by older schemas.
	dropTrigger := `
    DROP TRIGGER IF EXISTS update_loans_modtime ON loans;
    DROP FUNCTION IF EXISTS update_modified_column();`
	if _, err := pool.Exec(ctx, dropTrigger); err != nil {
		return fmt.Errorf("failed to drop updated_at trigger: %w", err)
	}

	logger.Log.Info("database migration completed")
	return nil
}
