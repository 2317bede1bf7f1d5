package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/creasty/defaults"

	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

const (
	DriverSQLServer = "sqlserver"
	DriverDuckDB    = "duckdb"
)

type Configuration struct {
	Database  Database
	TestData  TestData
	Auth      Auth
	Lookup    Lookup
	Dashboard Dashboard
	Server    Server
	Audit     Audit
	LogFormat string        `default:"console"`
	LogLevel  string        `default:"info"`
	Timeout   time.Duration `default:"10m"`
}

type Database struct {
	Driver         string `default:"sqlserver"`
	Server         string `default:"localhost"`
	Name           string `default:"CBO_QA"`
	User           string
	Password       string
	Port           int `default:"1558"`
	UseWindowsAuth bool
	DuckDBPath     string
	ConnectTimeout time.Duration `default:"30s"`
	MaxOpenConns   int           `default:"5"`
	MaxIdleTime    time.Duration `default:"30s"`
}

type TestData struct {
	Path       string `default:"testdata/CBO-Smoke-TestData.xlsx"`
	ScenarioID string `default:"TC01_CBO_2under30Flag"`
	Row        int    `default:"1"`
}

type Auth struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string        `default:"cbo_web_api"`
	MaxElapsed   time.Duration `default:"30s"`
}

type Lookup struct {
	URL string `default:"http://localhost/api/Lookup/Debtor"`
}

type Dashboard struct {
	URL            string
	Username       string
	Password       string
	JobName        string        `default:"CBOInboundProcess"`
	Headless       bool          `default:"true"`
	ProcessingWait time.Duration `default:"50s"`
}

type Server struct {
	HTTPPort   int    `default:"8000"`
	ServerMode string `default:"dev"`
}

type Audit struct {
	Directory string `default:"./test-logs"`
}

// NewConfigurationWithDefaults returns a configuration populated from the
// struct tag defaults.
func NewConfigurationWithDefaults() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}
	return cfg, nil
}

// Validate checks the database settings. Windows integrated authentication
// is not supported, so explicit SQL credentials are required for SQL Server.
func (d Database) Validate() error {
	switch d.Driver {
	case DriverDuckDB:
		return nil
	case DriverSQLServer:
	default:
		return srvErrors.NewConfigurationError("unsupported database driver %q", d.Driver)
	}

	if d.UseWindowsAuth {
		return srvErrors.NewConfigurationError("windows authentication is not supported, set DB_USE_WINDOWS_AUTH=false and provide DB_CBO_USER and DB_CBO_PASSWORD")
	}
	if d.User == "" || d.Password == "" {
		return srvErrors.NewConfigurationError("DB_CBO_USER and DB_CBO_PASSWORD are required for SQL Server authentication")
	}
	if d.Server == "" || d.Name == "" {
		return srvErrors.NewConfigurationError("DB_CBO_SERVER and DB_CBO_DATABASE are required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return srvErrors.NewConfigurationError("invalid database port %d", d.Port)
	}
	return nil
}

// DSN builds the driver connection string.
func (d Database) DSN() string {
	if d.Driver == DriverDuckDB {
		return d.DuckDBPath
	}
	q := url.Values{}
	q.Set("database", d.Name)
	q.Set("encrypt", "disable")
	q.Set("TrustServerCertificate", "true")
	q.Set("connection timeout", fmt.Sprintf("%d", int(d.ConnectTimeout.Seconds())))
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Server, d.Port),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (a Auth) Validate() error {
	if a.TokenURL == "" {
		return srvErrors.NewConfigurationError("missing env var CBO_AUTHURL_QA")
	}
	if a.ClientID == "" {
		return srvErrors.NewConfigurationError("missing env var CBO_CLIENT_ID")
	}
	if a.ClientSecret == "" {
		return srvErrors.NewConfigurationError("missing env var CBO_CLIENT_SECRET")
	}
	return nil
}

func (d Dashboard) Validate() error {
	if d.URL == "" || d.Username == "" || d.Password == "" {
		return srvErrors.NewConfigurationError("missing RC login environment variables (RC_QA_URL, RC_QA_Username, RC_QA_Password)")
	}
	return nil
}

// TrimSecret strips whitespace and a leading and trailing quote, as found in
// hand-edited .env files.
func TrimSecret(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// DebugMap returns the configuration for logging with secrets masked.
func (c *Configuration) DebugMap() map[string]any {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "(sensitive)"
	}
	return map[string]any{
		"database": map[string]any{
			"driver":           c.Database.Driver,
			"server":           c.Database.Server,
			"name":             c.Database.Name,
			"user":             c.Database.User,
			"password":         mask(c.Database.Password),
			"port":             c.Database.Port,
			"use_windows_auth": c.Database.UseWindowsAuth,
			"duckdb_path":      c.Database.DuckDBPath,
		},
		"test_data": map[string]any{
			"path":     c.TestData.Path,
			"scenario": c.TestData.ScenarioID,
			"row":      c.TestData.Row,
		},
		"auth": map[string]any{
			"token_url":     c.Auth.TokenURL,
			"client_id":     c.Auth.ClientID,
			"client_secret": mask(c.Auth.ClientSecret),
			"scope":         c.Auth.Scope,
		},
		"lookup_url": c.Lookup.URL,
		"dashboard": map[string]any{
			"url":      c.Dashboard.URL,
			"username": c.Dashboard.Username,
			"password": mask(c.Dashboard.Password),
			"job":      c.Dashboard.JobName,
			"headless": c.Dashboard.Headless,
		},
		"http_port":  c.Server.HTTPPort,
		"mode":       c.Server.ServerMode,
		"audit_dir":  c.Audit.Directory,
		"log_format": c.LogFormat,
		"log_level":  c.LogLevel,
		"timeout":    c.Timeout.String(),
	}
}
