// Package handlers implements the fixture HTTP API for cbo-smoke.
//
// Handlers let a test harness seed staging data and read back the values
// that were generated for it, without running the CLI. Business logic lives
// in services.FixtureService; handlers parse parameters, map errors to
// status codes and convert models to api/v1 types.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│  v1.RegisterHandlers (path and query parsing)                   │
//	│  Handler (this package)                                         │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│  FixtureService ──► Row Source │ Seeder │ Staging Store         │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬───────────────────────────────────────┬─────────────────────────────┐
//	│ Method │ Endpoint                              │ Description                 │
//	├────────┼───────────────────────────────────────┼─────────────────────────────┤
//	│ GET    │ /health                               │ Liveness and ledger run ID  │
//	│ GET    │ /scenarios/{scenario}/rows            │ Rows of the scenario sheet  │
//	│ POST   │ /scenarios/{scenario}/rows/{row}/seed │ Stage one row               │
//	│ GET    │ /ledger                               │ Generated values of the run │
//	│ GET    │ /staging?transactionId=&limit=        │ Staged liens, newest first  │
//	└────────┴───────────────────────────────────────┴─────────────────────────────┘
//
// POST .../seed answers 201 with the resolved values:
//
//	{
//	    "row": "1",
//	    "transactionId": "312447105",
//	    "registrationDate": "2026-03-15",
//	    "expiryDate": "2028-03-15",
//	    "term": 2,
//	    "firstName": "CBOSmokeFN20260315_090705",
//	    ...
//	}
//
// Seed requests are queued on a single worker, so two requests never stage
// at the same time.
//
// # Error Handling
//
//	{ "error": "error message" }
//
//	┌─────────────────────────────┬────────┐
//	│ Error Type                  │ Status │
//	├─────────────────────────────┼────────┤
//	│ Invalid path or query       │ 400    │
//	│ ResourceNotFoundError       │ 404    │
//	│ InvalidTemplateError        │ 422    │
//	│ ConfigurationError          │ 500    │
//	│ DatabaseError               │ 502    │
//	│ Request cancelled           │ 503    │
//	└─────────────────────────────┴────────┘
package handlers
