package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/cbo-qa/cbo-smoke/api/v1"
	"github.com/cbo-qa/cbo-smoke/internal/handlers"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/rows"
	"github.com/cbo-qa/cbo-smoke/internal/server"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	"github.com/cbo-qa/cbo-smoke/pkg/dashboard"
	"github.com/cbo-qa/cbo-smoke/pkg/scheduler"
)

func newRowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "List the rows of the configured scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := rows.New(a.cfg.TestData.Path, a.cfg.TestData.ScenarioID)
			all, err := src.AllRows()
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "reading rows", err)
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = titleColor.Fprintf(w, "Scenario %s (sheet %s): %d rows\n", a.cfg.TestData.ScenarioID, src.SheetName(), len(all))
			for _, r := range all {
				printField(w, r.Value(models.RowNumberField), r.Value("Test Scenario"))
			}
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var rowNumbers []int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Resolve scenario rows and insert them into the staging tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if len(rowNumbers) == 0 {
				rowNumbers = []int{a.cfg.TestData.Row}
			}

			st, err := openStore(ctx, a.cfg.Database)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "opening staging database", err)
				return err
			}
			defer func() { _ = st.Close() }()

			src := rows.New(a.cfg.TestData.Path, a.cfg.TestData.ScenarioID)
			seeder := a.newSeeder(st)
			w := cmd.OutOrStdout()

			for _, n := range rowNumbers {
				row, err := src.LoadRow(n)
				if err != nil {
					printFailure(cmd.ErrOrStderr(), "loading row", err)
					return err
				}
				rec, err := seeder.InsertStagingData(ctx, models.NewTestData(row))
				if err != nil {
					printFailure(cmd.ErrOrStderr(), "staging row", err)
					return err
				}
				printRecord(w, rec)
			}

			printLedger(w, seeder.Ledger())
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&rowNumbers, "row", nil, "row numbers to seed (default TEST_DATA_ROW)")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Request an access token with the client credentials grant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			tok, err := a.newTokenSource().Fetch(ctx)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "token request", err)
				return err
			}
			printToken(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	var firstName, lastName string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Call the debtor lookup for a previously staged debtor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			row, err := rows.New(a.cfg.TestData.Path, a.cfg.TestData.ScenarioID).LoadRow(a.cfg.TestData.Row)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "loading row", err)
				return err
			}

			seeder := services.NewSeeder(a.cfg.Database, nil, nil, nil, nil)
			seeder.Ledger().Append(models.LedgerFirstName, firstName)
			seeder.Ledger().Append(models.LedgerLastName, lastName)

			runner := services.NewSmokeRunner(nil, seeder, a.newTokenSource(), a.newLookupClient())
			resp, err := runner.LookupLast(ctx, models.NewTestData(row).API)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "lookup", err)
				return err
			}
			printLookup(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "debtor first name as staged")
	cmd.Flags().StringVar(&lastName, "last-name", "", "debtor last name as staged")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func newTriggerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Trigger the inbound recurring job from the Hangfire dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			count, err := dashboard.New(a.cfg.Dashboard).TriggerRecurringJob(ctx)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "trigger", err)
				return err
			}
			_, _ = okColor.Fprintf(cmd.OutOrStdout(), "Job %s triggered, processing count %d\n", a.cfg.Dashboard.JobName, count)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		trigger bool
		settle  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stage a row, optionally trigger the inbound job, then look the debtor up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			st, err := openStore(ctx, a.cfg.Database)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "opening staging database", err)
				return err
			}
			defer func() { _ = st.Close() }()

			src := rows.New(a.cfg.TestData.Path, a.cfg.TestData.ScenarioID)
			runner := services.NewSmokeRunner(src, a.newSeeder(st), a.newTokenSource(), a.newLookupClient())
			if trigger {
				runner = runner.WithTrigger(dashboard.New(a.cfg.Dashboard), settle)
			}

			result, err := runner.Run(ctx, a.cfg.TestData.Row)
			w := cmd.OutOrStdout()
			if result != nil && result.Record != nil {
				printRecord(w, result.Record)
			}
			if err != nil {
				printFailure(cmd.ErrOrStderr(), "smoke run", err)
				return err
			}
			if result.Triggered {
				printField(w, "Processing", result.Processing)
			}
			printLookup(w, result.Lookup)
			return nil
		},
	}

	cmd.Flags().BoolVar(&trigger, "trigger", false, "trigger the inbound recurring job before the lookup")
	cmd.Flags().DurationVar(&settle, "settle", 0, "wait after triggering before the lookup")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fixture HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := a.signalContext(cmd)
			defer stop()

			st, err := openStore(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			sched := scheduler.NewScheduler[*models.ResolvedRecord](1)
			defer sched.Close()

			fixtures := services.NewFixtureService(a.cfg.TestData.Path, a.newSeeder(st), st, sched)
			h := handlers.New(fixtures)

			srv, err := server.NewServer(a.cfg, func(router *gin.RouterGroup) {
				v1.RegisterHandlers(router, h)
			})
			if err != nil {
				return err
			}

			zap.S().Named("serve").Infow("starting fixture api", "port", a.cfg.Server.HTTPPort, "driver", a.cfg.Database.Driver)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().Int("port", 8000, "HTTP port")
	cmd.Flags().String("mode", "dev", "server mode (dev, prod)")
	return cmd
}
