package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/pkg/cbo"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

type RowLoader interface {
	LoadRow(n int) (models.ScenarioRow, error)
}

type TokenFetcher interface {
	Fetch(ctx context.Context) (*cbo.Token, error)
}

type DebtorLookup interface {
	LookupDebtor(ctx context.Context, token string, req cbo.LookupRequest) (*cbo.LookupResponse, error)
}

type JobTrigger interface {
	TriggerRecurringJob(ctx context.Context) (int, error)
}

// SmokeResult is the outcome of one smoke run.
type SmokeResult struct {
	Record     *models.ResolvedRecord
	Triggered  bool
	Processing int
	Lookup     *cbo.LookupResponse
}

// SmokeRunner stages one row, optionally triggers the inbound job and then
// looks the generated debtor up through the CBO API.
type SmokeRunner struct {
	rows    RowLoader
	seeder  *Seeder
	tokens  TokenFetcher
	lookup  DebtorLookup
	trigger JobTrigger
	settle  time.Duration
}

func NewSmokeRunner(rows RowLoader, seeder *Seeder, tokens TokenFetcher, lookup DebtorLookup) *SmokeRunner {
	return &SmokeRunner{rows: rows, seeder: seeder, tokens: tokens, lookup: lookup}
}

// WithTrigger runs t after staging and waits settle before the lookup.
func (r *SmokeRunner) WithTrigger(t JobTrigger, settle time.Duration) *SmokeRunner {
	r.trigger = t
	r.settle = settle
	return r
}

func (r *SmokeRunner) Run(ctx context.Context, rowNumber int) (*SmokeResult, error) {
	log := zap.S().Named("smoke")

	row, err := r.rows.LoadRow(rowNumber)
	if err != nil {
		return nil, err
	}
	td := models.NewTestData(row)
	log.Infow("loaded test data row", "row", rowNumber, "scenario", td.TestScenario)

	rec, err := r.seeder.InsertStagingData(ctx, td)
	if err != nil {
		return nil, fmt.Errorf("failed to stage row %d: %w", rowNumber, err)
	}

	result := &SmokeResult{Record: rec}

	if r.trigger != nil {
		count, err := r.trigger.TriggerRecurringJob(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to trigger recurring job: %w", err)
		}
		result.Triggered = true
		result.Processing = count

		if r.settle > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.settle):
			}
		}
	}

	resp, err := r.LookupLast(ctx, td.API)
	if err != nil {
		return result, err
	}
	result.Lookup = resp

	return result, nil
}

// LookupLast calls the debtor lookup with the names most recently recorded
// in the ledger.
func (r *SmokeRunner) LookupLast(ctx context.Context, api models.LookupData) (*cbo.LookupResponse, error) {
	l := r.seeder.Ledger()
	firstName, ok := l.Last(models.LedgerFirstName)
	if !ok {
		return nil, srvErrors.NewLedgerEmptyError(string(models.LedgerFirstName))
	}
	lastName, _ := l.Last(models.LedgerLastName)

	token, err := r.tokens.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	zap.S().Named("smoke").Infow("reusing generated values", "api_id", api.ID, "first_name", firstName, "last_name", lastName)

	return r.lookup.LookupDebtor(ctx, token.AccessToken, cbo.NewLookupRequest(api, firstName, lastName))
}
