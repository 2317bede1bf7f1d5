package store

import (
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

// NewDB opens a DuckDB database at path. ":memory:" or "" gives a private
// in-memory database shared by every connection of the returned pool.
func NewDB(path string) (*sql.DB, error) {
	if path == ":memory:" {
		path = ""
	}
	db, err := sql.Open(config.DriverDuckDB, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb database: %w", err)
	}
	return db, nil
}

// Open validates the database settings and opens a pool for the configured
// driver. No connection is made until the pool is first used.
func Open(cfg config.Database) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverDuckDB {
		return NewDB(cfg.DSN())
	}

	db, err := sql.Open(config.DriverSQLServer, cfg.DSN())
	if err != nil {
		return nil, srvErrors.NewDatabaseError("open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)
	return db, nil
}
