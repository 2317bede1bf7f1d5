package services

import (
	"context"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/rows"
	"github.com/cbo-qa/cbo-smoke/internal/store"
	"github.com/cbo-qa/cbo-smoke/pkg/scheduler"
)

// FixtureService exposes the workbook and the seeder to the HTTP API.
// Seeding goes through a single-worker scheduler so requests never stage
// concurrently.
type FixtureService struct {
	path      string
	seeder    *Seeder
	store     *store.Store
	scheduler *scheduler.Scheduler[*models.ResolvedRecord]
}

func NewFixtureService(path string, seeder *Seeder, st *store.Store, s *scheduler.Scheduler[*models.ResolvedRecord]) *FixtureService {
	return &FixtureService{path: path, seeder: seeder, store: st, scheduler: s}
}

// Rows returns every row of the scenario and the sheet it was read from.
func (f *FixtureService) Rows(scenario string) ([]models.ScenarioRow, string, error) {
	src := rows.New(f.path, scenario)
	all, err := src.AllRows()
	if err != nil {
		return nil, src.SheetName(), err
	}
	return all, src.SheetName(), nil
}

// Seed loads one row and stages it.
func (f *FixtureService) Seed(ctx context.Context, scenario string, rowNumber int) (*models.ResolvedRecord, error) {
	row, err := rows.New(f.path, scenario).LoadRow(rowNumber)
	if err != nil {
		return nil, err
	}
	td := models.NewTestData(row)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	future := f.scheduler.AddWork(func(ctx context.Context) (*models.ResolvedRecord, error) {
		return f.seeder.InsertStagingData(ctx, td)
	})

	result, err := future.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return result.Data, result.Err
}

// Ledger returns a copy of every value generated by this service's seeder.
func (f *FixtureService) Ledger() (string, map[models.LedgerField][]string) {
	l := f.seeder.Ledger()
	return l.RunID().String(), l.Snapshot()
}

// Staged lists records in the staging tables, newest first.
func (f *FixtureService) Staged(ctx context.Context, transactionIDs []string, limit uint64) ([]models.StagedLien, error) {
	opts := []store.ListOption{store.ByTransactionIDs(transactionIDs...), store.WithDefaultSort()}
	if limit > 0 {
		opts = append(opts, store.WithLimit(limit))
	}
	return f.store.Staging().List(ctx, opts...)
}
