package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/audit"
	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/ledger"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/store"
	"github.com/cbo-qa/cbo-smoke/internal/templating"
)

// Seeder stages test records. It owns the ledger of generated values for
// the run.
type Seeder struct {
	dbConfig config.Database
	store    *store.Store
	resolver *templating.Resolver
	ledger   *ledger.Ledger
	audit    *audit.Logger
}

func NewSeeder(dbConfig config.Database, st *store.Store, resolver *templating.Resolver, l *ledger.Ledger, a *audit.Logger) *Seeder {
	if l == nil {
		l = ledger.New()
	}
	if resolver == nil {
		resolver = templating.NewResolver()
	}
	return &Seeder{
		dbConfig: dbConfig,
		store:    st,
		resolver: resolver,
		ledger:   l,
		audit:    a,
	}
}

func (s *Seeder) Ledger() *ledger.Ledger {
	return s.ledger
}

// InsertStagingData resolves td and writes it to the four staging tables in
// one transaction. Generated values are recorded in the ledger once the
// connection is open and stay recorded when the write fails. On success the
// record is appended to the audit log.
func (s *Seeder) InsertStagingData(ctx context.Context, td models.TestData) (*models.ResolvedRecord, error) {
	if err := s.dbConfig.Validate(); err != nil {
		return nil, err
	}

	log := zap.S().Named("seeder").With("run_id", s.ledger.RunID(), "row", td.CSVFileRowNumber)

	tx, err := s.store.Staging().Begin(ctx)
	if err != nil {
		log.Errorw("failed to open staging transaction", "error", err)
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := s.resolver.Resolve(td)
	if err != nil {
		return nil, err
	}
	s.ledger.Record(rec.LedgerEntries())

	if err := tx.Insert(ctx, rec); err != nil {
		log.Errorw("failed to insert staging data", "transaction_id", rec.TransactionID, "error", err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		log.Errorw("failed to commit staging data", "transaction_id", rec.TransactionID, "error", err)
		return nil, err
	}

	log.Infow("staging data inserted",
		"transaction_id", rec.TransactionID,
		"contract_id", rec.ContractID,
		"registration_number", rec.RegistrationNumber,
		"registration_date", rec.RegistrationDate,
		"expiry_date", rec.ExpiryDate,
	)

	if s.audit != nil {
		s.audit.Append(rec)
	}

	return &rec, nil
}
