// Package app wires configuration into a running loan service.
package app

import (
	"context"
	"fmt"

	"github.com/oatsaysai/lend-reminder/internal/config"
	"github.com/oatsaysai/lend-reminder/internal/db"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"go.uber.org/zap"
)

// OpenStore opens the configured loan store. The returned func releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (loans.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		store, err := db.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("using sqlite loan store", zap.String("path", cfg.SQLite.Path))
		return store, func() { store.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.PostgreSQL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return db.NewLoans(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewService builds the loan service with the configured reminder policy
func NewService(store loans.Store, cfg *config.Config) *loans.Service {
	return loans.NewService(store,
		loans.WithPolicy(cfg.Reminder.Policy()),
		loans.WithLogger(logger.Log.Named("loans")),
	)
}
