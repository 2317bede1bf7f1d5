// Package store implements the staging data access layer for cbo-smoke.
//
// Test records are written to the inbound staging tables that the CBO
// recurring job consumes. Against the shared QA environment this is SQL
// Server; for local runs and tests the same tables are created in DuckDB by
// the migrations package.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                         StagingStore                            │
//	│          Begin → StagingTx.Insert → Commit / Rollback           │
//	│                             ▼                                   │
//	│   StagingLienInfo, StagingSerialCollateral, StagingDebtor,      │
//	│   StagingDebtorAddress                                          │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Drivers and Dialects
//
//	┌───────────┬─────────────────────┬──────────────┬──────────────┐
//	│  Driver   │  Module             │  Placeholder │  Quoting     │
//	├───────────┼─────────────────────┼──────────────┼──────────────┤
//	│  sqlserver│  go-mssqldb         │  @p1, @p2    │  [dbo].[T]   │
//	│  duckdb   │  duckdb-go          │  ?           │  "dbo"."T"   │
//	└───────────┴─────────────────────┴──────────────┴──────────────┘
//
// Statements are built with squirrel and bound with the dialect's
// placeholder format; no value is ever interpolated into SQL text.
//
// # Connection Scope
//
// Begin takes a dedicated connection from the pool and opens a transaction
// on it. The four inserts of a record either all commit or all roll back,
// and the connection returns to the pool on Commit or Rollback. No
// connection is held between records.
//
// Open validates the database settings first, so a configuration error
// (for example Windows authentication) is reported before any network
// activity.
//
// # StagingStore
//
// Methods:
//   - Begin(ctx) → *StagingTx
//   - StagingTx.Insert(ctx, record) → error
//   - List(ctx, opts...) → []models.StagedLien
//   - Count(ctx, transactionID) → rows per staging table
//
// List uses the functional options pattern:
//
//	liens, err := store.Staging().List(ctx,
//	    store.ByTransactionIDs("123456789"),
//	    store.WithDefaultSort(),
//	    store.WithLimit(10),
//	)
//
// # QueryInterceptor
//
// All database operations are wrapped with a QueryInterceptor that provides
// debug logging for all queries.
//
// Logged operations:
//   - QueryRowContext
//   - QueryContext
//   - ExecContext
package store
