package main

import (
	"context"

	"github.com/cbo-qa/cbo-smoke/internal/audit"
	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	"github.com/cbo-qa/cbo-smoke/internal/store"
	"github.com/cbo-qa/cbo-smoke/internal/store/migrations"
	"github.com/cbo-qa/cbo-smoke/pkg/cbo"
)

// openStore connects to the configured staging database. DuckDB databases
// are migrated on open; SQL Server tables are owned by the CBO schema.
func openStore(ctx context.Context, cfg config.Database) (*store.Store, error) {
	db, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverDuckDB {
		if err := migrations.Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return store.NewStore(db, store.DialectFor(cfg.Driver)), nil
}

func (a *app) newSeeder(st *store.Store) *services.Seeder {
	return services.NewSeeder(a.cfg.Database, st, nil, nil, audit.NewLogger(a.cfg.Audit.Directory))
}

func (a *app) newTokenSource() *cbo.TokenSource {
	return cbo.NewTokenSource(a.cfg.Auth)
}

func (a *app) newLookupClient() *cbo.LookupClient {
	return cbo.NewLookupClient(a.cfg.Lookup.URL, nil)
}
