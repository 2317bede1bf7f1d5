package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cbo-qa/cbo-smoke/internal/config"
)

const envPrefix = "CBO_SMOKE"

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"log-format":  "log_format",
	"timeout":     "timeout",
	"data":        "test_data.path",
	"scenario":    "test_data.scenario",
	"db-driver":   "database.driver",
	"duckdb-path": "database.duckdb_path",
	"audit-dir":   "audit.directory",
	"port":        "http_port",
	"mode":        "server_mode",
}

type app struct {
	v       *viper.Viper
	cfg     *config.Configuration
	envFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "cbo-smoke",
		Short:        "Seed CBO lien staging tables and smoke test the CBO lookup",
		SilenceUsage: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			a.setup,
		),
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	fs := root.PersistentFlags()
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "console", "log format (console, json)")
	fs.Duration("timeout", 0, "overall timeout for the command (default from configuration)")
	fs.String("data", "", "path to the test data workbook (TEST_DATA_PATH)")
	fs.String("scenario", "", "test scenario id (TEST_SCENARIO_ID)")
	fs.String("db-driver", "", "database driver: sqlserver or duckdb (DB_DRIVER)")
	fs.String("duckdb-path", "", "duckdb database file, empty for in-memory (DB_DUCKDB_PATH)")
	fs.String("audit-dir", "", "directory for the daily audit CSV (TEST_LOG_DIR)")
	fs.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newRowsCmd(a),
		newSeedCmd(a),
		newTokenCmd(a),
		newLookupCmd(a),
		newTriggerCmd(a),
		newRunCmd(a),
		newServeCmd(a),
	)

	return root
}

// setup loads the .env file, binds flags, installs the global logger and
// builds the configuration.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", a.envFile, err)
	}

	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	logger, err := newLogger(a.v.GetString("log_level"), a.v.GetString("log_format"))
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}

func (a *app) signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

// context returns the command context bounded by the configured timeout
// and cancelled on SIGINT or SIGTERM.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := a.signalContext(cmd)
	if a.cfg.Timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
