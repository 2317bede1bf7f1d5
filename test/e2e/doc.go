/*
Package main provides end-to-end tests for cbo-smoke.

The suite drives the fixture HTTP API and the CBO token and lookup
endpoints the way a test harness would: list scenario rows, seed them,
read the ledger back and look the last generated debtor up.

# Package Structure

	test/e2e/
	├── main.go          Entry point: flags, config, InfraManager setup, Ginkgo runner
	├── tests.go         Ginkgo specs (rows, seeding, ledger, lookup)
	├── doc.go           This file
	├── infra/
	│   ├── infra.go     InfraManager interface + FixtureConfig
	│   ├── local.go     LocalInfraManager (fake CBO + fixture API on DuckDB, in-process)
	│   └── external.go  ExternalInfraManager (no-op, deployed elsewhere)
	└── service/
	    └── service.go   FixtureSvc, HTTP client for the fixture API

# InfraManager

	type InfraManager interface {
	    StartCBO(addr) / StopCBO()
	    StartFixtureAPI(cfg) / StopFixtureAPI()
	}

Two implementations:
  - LocalInfraManager runs test.FakeCBO and the fixture API in the test
    process. Staging goes to an in-memory DuckDB database and the workbook
    is generated when -workbook is empty.
  - ExternalInfraManager returns -cbo-url and -fixture-url unchanged.

Selected via the -infra-mode flag ("local" or "external").

	┌─────────┐      ┌─────────────┐      ┌──────────────────┐
	│  Specs  │─────▶│ Fixture API │─────▶│ Staging database │
	└────┬────┘      └─────────────┘      └──────────────────┘
	     │
	     ▼
	┌──────────────────────────────┐
	│ CBO /connect/token, /Lookup  │
	└──────────────────────────────┘

# Running

	go run ./test/e2e
	go run ./test/e2e -infra-mode external -cbo-url https://cbo.qa -fixture-url http://fixtures:8000 \
	    -client-id $CBO_CLIENT_ID -client-secret $CBO_CLIENT_SECRET
*/
package main
