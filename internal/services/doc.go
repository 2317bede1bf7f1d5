// Package services implements the business logic layer for cbo-smoke.
//
// Services sit between the CLI and HTTP handlers on one side and the
// workbook, the staging store and the CBO clients on the other.
//
// # Service Dependency Graph
//
//	CLI commands / Handlers
//	    │
//	    ▼
//	Services Layer
//	    ├── Seeder ─────────► Store, Resolver, Ledger, Audit Logger
//	    ├── SmokeRunner ────► Row Source, Seeder, TokenSource, LookupClient, Dashboard
//	    └── FixtureService ─► Row Source, Seeder, Store, Scheduler
//
// # Seeder
//
// InsertStagingData runs the staging pipeline for one row:
//
//	validate database config ──► ConfigurationError (no I/O)
//	Begin (connection + transaction) ──► DatabaseError
//	resolve templates ──► InvalidTemplateError
//	record generated values in the ledger
//	insert into the four staging tables ──► DatabaseError, rollback
//	commit ──► DatabaseError, rollback
//	append to the audit log (failures only logged)
//
// The ledger keeps every generated value for the run. After k successful
// insertions each ledger field holds k values, in call order. A failed
// insert keeps the values it generated.
//
// # SmokeRunner
//
// Run stages a row, optionally triggers the Hangfire recurring job through
// the dashboard, fetches an access token and calls the debtor lookup with
// the first and last names most recently recorded in the ledger.
//
// # FixtureService
//
// Backs the fixture HTTP API. Seeding requests are queued on a scheduler
// with one worker.
package services
