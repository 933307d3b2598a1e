// Package backend builds the record store selected by configuration.
package backend

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/financia/internal/config"
	"github.com/MrJamesThe3rd/financia/internal/database"
	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/kv/cache"
	"github.com/MrJamesThe3rd/financia/internal/kv/memory"
	"github.com/MrJamesThe3rd/financia/internal/kv/sqlstore"
	"github.com/MrJamesThe3rd/financia/internal/logging"
)

// Result is an opened store and the function releasing its resources.
type Result struct {
	Store   kv.Store
	Cleanup func() error
}

func noop() error { return nil }

// Open creates the configured store, applying migrations for SQL backends and
// wrapping it in a cache when enabled.
func Open(cfg *config.Config, log *slog.Logger) (*Result, error) {
	log = logging.Component(log, "backend")

	res, err := open(cfg, log)
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return res, nil
	}

	c, err := cache.New(res.Store, cfg.Cache.MaxCost)
	if err != nil {
		return nil, errors.Join(err, res.Cleanup())
	}

	log.Info("collection cache enabled", "max_cost", cfg.Cache.MaxCost)

	next := res.Cleanup

	return &Result{
		Store: c,
		Cleanup: func() error {
			c.Close()
			return next()
		},
	}, nil
}

func open(cfg *config.Config, log *slog.Logger) (*Result, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Info("initialized memory backend")
		return &Result{Store: memory.New(), Cleanup: noop}, nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(database.SQLite, cfg.Storage.SQLitePath); err != nil {
			return nil, errors.Join(err, db.Close())
		}

		log.Info("initialized sqlite backend", "path", cfg.Storage.SQLitePath)

		return &Result{Store: sqlstore.New(db, database.SQLite), Cleanup: db.Close}, nil

	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(database.Postgres, cfg.ConnectionString()); err != nil {
			return nil, errors.Join(err, db.Close())
		}

		log.Info("initialized postgres backend", "host", cfg.DB.Host, "db", cfg.DB.Name)

		return &Result{Store: sqlstore.New(db, database.Postgres), Cleanup: db.Close}, nil
	}

	return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
}
