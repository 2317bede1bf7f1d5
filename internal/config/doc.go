// Package config defines the configuration structure for cbo-smoke.
//
// Defaults come from `default` struct tags applied with creasty/defaults.
// Load then overlays values bound through viper: command flags synced by
// cobrautil and the environment variables the QA environment already
// exports. A .env file in the working directory is read first and never
// overrides variables that are already set.
//
// # Configuration Structure
//
//	Configuration
//	├── Database   - staging database connection
//	├── TestData   - workbook path and scenario selection
//	├── Auth       - OAuth2 client credentials for the CBO API
//	├── Lookup     - debtor lookup endpoint
//	├── Dashboard  - recurring job dashboard login
//	├── Server     - fixture API listen port
//	├── Audit      - audit log directory
//	├── LogFormat  - console or json
//	├── LogLevel   - logging verbosity
//	└── Timeout    - overall run timeout
//
// # Database Configuration
//
//	┌────────────────┬───────────────────────┬───────────┐
//	│ Field          │ Environment           │ Default   │
//	├────────────────┼───────────────────────┼───────────┤
//	│ Driver         │ DB_DRIVER             │ sqlserver │
//	│ Server         │ DB_CBO_SERVER         │ localhost │
//	│ Name           │ DB_CBO_DATABASE       │ CBO_QA    │
//	│ User           │ DB_CBO_USER           │           │
//	│ Password       │ DB_CBO_PASSWORD       │           │
//	│ Port           │ DB_CBO_PORT           │ 1558      │
//	│ UseWindowsAuth │ DB_USE_WINDOWS_AUTH   │ false     │
//	│ DuckDBPath     │ DB_DUCKDB_PATH        │ in-memory │
//	└────────────────┴───────────────────────┴───────────┘
//
// Windows integrated authentication is rejected by Database.Validate; SQL
// Server always needs DB_CBO_USER and DB_CBO_PASSWORD. The duckdb driver
// needs no credentials and is used for local runs and tests.
//
// # Remote Services
//
//	┌─────────────────────┬────────────────────┐
//	│ Field               │ Environment        │
//	├─────────────────────┼────────────────────┤
//	│ Auth.TokenURL       │ CBO_AUTHURL_QA     │
//	│ Auth.ClientID       │ CBO_CLIENT_ID      │
//	│ Auth.ClientSecret   │ CBO_CLIENT_SECRET  │
//	│ Lookup.URL          │ CBO_LOOKUP_URL     │
//	│ Dashboard.URL       │ RC_QA_URL          │
//	│ Dashboard.Username  │ RC_QA_Username     │
//	│ Dashboard.Password  │ RC_QA_Password     │
//	└─────────────────────┴────────────────────┘
//
// Secrets read from the environment are passed through TrimSecret, which
// drops surrounding whitespace and quotes.
package config
