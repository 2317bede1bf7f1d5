package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// envBindings maps viper keys to the environment variables the suite has
// always used.
var envBindings = map[string]string{
	"database.driver":           "DB_DRIVER",
	"database.server":           "DB_CBO_SERVER",
	"database.name":             "DB_CBO_DATABASE",
	"database.user":             "DB_CBO_USER",
	"database.password":         "DB_CBO_PASSWORD",
	"database.port":             "DB_CBO_PORT",
	"database.use_windows_auth": "DB_USE_WINDOWS_AUTH",
	"database.duckdb_path":      "DB_DUCKDB_PATH",
	"test_data.path":            "TEST_DATA_PATH",
	"test_data.scenario":        "TEST_SCENARIO_ID",
	"test_data.row":             "TEST_DATA_ROW",
	"auth.token_url":            "CBO_AUTHURL_QA",
	"auth.client_id":            "CBO_CLIENT_ID",
	"auth.client_secret":        "CBO_CLIENT_SECRET",
	"auth.scope":                "CBO_SCOPE",
	"lookup.url":                "CBO_LOOKUP_URL",
	"dashboard.url":             "RC_QA_URL",
	"dashboard.username":        "RC_QA_Username",
	"dashboard.password":        "RC_QA_Password",
	"dashboard.headless":        "RC_HEADLESS",
	"audit.directory":           "TEST_LOG_DIR",
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding the existing environment. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// Load builds the configuration from defaults, then overrides values that
// are set in v (flags or bound environment variables).
func Load(v *viper.Viper) (*Configuration, error) {
	cfg, err := NewConfigurationWithDefaults()
	if err != nil {
		return nil, err
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if v.IsSet("database.driver") {
		cfg.Database.Driver = v.GetString("database.driver")
	}
	if v.IsSet("database.server") {
		cfg.Database.Server = v.GetString("database.server")
	}
	if v.IsSet("database.name") {
		cfg.Database.Name = v.GetString("database.name")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = TrimSecret(v.GetString("database.user"))
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = TrimSecret(v.GetString("database.password"))
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.use_windows_auth") {
		cfg.Database.UseWindowsAuth = strings.TrimSpace(v.GetString("database.use_windows_auth")) == "true"
	}
	if v.IsSet("database.duckdb_path") {
		cfg.Database.DuckDBPath = v.GetString("database.duckdb_path")
	}
	if v.IsSet("test_data.path") {
		cfg.TestData.Path = v.GetString("test_data.path")
	}
	if v.IsSet("test_data.scenario") {
		cfg.TestData.ScenarioID = v.GetString("test_data.scenario")
	}
	if v.IsSet("test_data.row") {
		cfg.TestData.Row = v.GetInt("test_data.row")
	}
	if v.IsSet("auth.token_url") {
		cfg.Auth.TokenURL = v.GetString("auth.token_url")
	}
	if v.IsSet("auth.client_id") {
		cfg.Auth.ClientID = v.GetString("auth.client_id")
	}
	if v.IsSet("auth.client_secret") {
		cfg.Auth.ClientSecret = v.GetString("auth.client_secret")
	}
	if v.IsSet("auth.scope") {
		cfg.Auth.Scope = v.GetString("auth.scope")
	}
	if v.IsSet("lookup.url") {
		cfg.Lookup.URL = v.GetString("lookup.url")
	}
	if v.IsSet("dashboard.url") {
		cfg.Dashboard.URL = v.GetString("dashboard.url")
	}
	if v.IsSet("dashboard.username") {
		cfg.Dashboard.Username = v.GetString("dashboard.username")
	}
	if v.IsSet("dashboard.password") {
		cfg.Dashboard.Password = v.GetString("dashboard.password")
	}
	if v.IsSet("dashboard.headless") {
		cfg.Dashboard.Headless = v.GetBool("dashboard.headless")
	}
	if v.IsSet("audit.directory") {
		cfg.Audit.Directory = v.GetString("audit.directory")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("log_format") {
		cfg.LogFormat = v.GetString("log_format")
	}
	if v.IsSet("timeout") {
		cfg.Timeout = v.GetDuration("timeout")
	}
	if v.IsSet("http_port") {
		cfg.Server.HTTPPort = v.GetInt("http_port")
	}
	if v.IsSet("server_mode") {
		cfg.Server.ServerMode = v.GetString("server_mode")
	}

	zap.S().Named("config").Debugw("configuration loaded", "config", cfg.DebugMap())

	return cfg, nil
}
