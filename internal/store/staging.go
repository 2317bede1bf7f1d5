package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

const (
	TableLienInfo         = "StagingLienInfo"
	TableSerialCollateral = "StagingSerialCollateral"
	TableDebtor           = "StagingDebtor"
	TableDebtorAddress    = "StagingDebtorAddress"

	modificationOriginal = "ORIGINAL"
	debtorSourceUI       = "UI"
)

// StagingTables lists the staging tables in insertion order.
var StagingTables = []string{TableLienInfo, TableSerialCollateral, TableDebtor, TableDebtorAddress}

// StagingStore writes test records into the inbound staging tables.
type StagingStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewStagingStore(db *sql.DB, dialect Dialect) *StagingStore {
	return &StagingStore{db: db, dialect: dialect, now: time.Now}
}

// Begin acquires a dedicated connection from the pool and opens a
// transaction on it. The connection goes back to the pool when the returned
// StagingTx is committed or rolled back.
func (s *StagingStore) Begin(ctx context.Context) (*StagingTx, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, srvErrors.NewDatabaseError("connect", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return nil, srvErrors.NewDatabaseError("begin transaction", err)
	}

	return &StagingTx{
		conn:    conn,
		tx:      tx,
		q:       NewQueryInterceptor(tx),
		dialect: s.dialect,
		now:     s.now,
	}, nil
}

// StagingTx inserts records within a single transaction.
type StagingTx struct {
	conn    *sql.Conn
	tx      *sql.Tx
	q       QueryInterceptor
	dialect Dialect
	now     func() time.Time
	done    bool
}

// Insert writes rec into the four staging tables. Created and updated
// timestamps are bound from the local clock.
func (t *StagingTx) Insert(ctx context.Context, rec models.ResolvedRecord) error {
	now := t.now()
	td := rec.Source

	inserts := []sq.InsertBuilder{
		sq.Insert(t.dialect.Table(TableLienInfo)).
			Columns(t.dialect.Columns(
				"ContractId", "TransactionId", "TransactionCreatedDateTime", "CorporationCode",
				"BaseRegistrationNumber", "AmendmentDate", "AmendmentRegistrationNumber",
				"DischargeDate", "DischargeRegistrationNumber", "ExpiryDate", "JurisdictionCode",
				"LienStatusCode", "LoanAmount", "Reference", "RegistrationDate", "ServiceTypeCode",
				"Term", "TransactionStatusCode", "Processed", "IsDeleted", "CreatedDateTime",
				"UpdatedDateTime", "SequenceNumber", "AuditData",
			)...).
			Values(
				rec.ContractID, rec.TransactionID, rec.TransactionCreatedDateTime, td.CorporationCode,
				rec.RegistrationNumber, nil, nil,
				nil, nil, rec.ExpiryDate, td.LienJurisdictionCode,
				td.LienStatusCode, 0, rec.Reference, rec.RegistrationDate, td.ServiceTypeCode,
				rec.Term, td.TransactionStatusCode, "", 0, now,
				now, 1, "",
			),
		sq.Insert(t.dialect.Table(TableSerialCollateral)).
			Columns(t.dialect.Columns(
				"TransactionId", "ContractSerialCollateralId", "SerialNumberOrVIN", "Make", "Model",
				"Year", "SequenceNumber", "SerialCollateralTypeDescription", "ModificationTypeCode",
				"IsDeleted", "CreatedDateTime", "UpdatedDateTime",
			)...).
			Values(
				rec.TransactionID, rec.SerialCollateralID, td.SerialNumberOrVIN, td.Make, td.Model,
				td.Year, 1, td.SerialCollateralTypeDescription, modificationOriginal,
				0, now, now,
			),
		sq.Insert(t.dialect.Table(TableDebtor)).
			Columns(t.dialect.Columns(
				"TransactionId", "ContractDebtorId", "FirstName", "MiddleName", "LastName",
				"DateOfBirth", "BusinessName", "ModificationTypeCode", "IsLVSGenerated",
				"IsSystemGenerated", "DebtorSourceTypeCode", "IsDeleted", "CreatedDateTime",
				"UpdatedDateTime",
			)...).
			Values(
				rec.TransactionID, rec.ContractDebtorID, rec.FirstName, "", rec.LastName,
				td.DateOfBirth, "", modificationOriginal, 0,
				0, debtorSourceUI, 0, now,
				now,
			),
		sq.Insert(t.dialect.Table(TableDebtorAddress)).
			Columns(t.dialect.Columns(
				"TransactionId", "ContractDebtorId", "Address", "City", "JurisdictionCode",
				"JurisdictionName", "PostalOrZipCode", "CountryCode", "CountryName", "IsDeleted",
				"CreatedDateTime", "UpdatedDateTime",
			)...).
			Values(
				rec.TransactionID, rec.ContractDebtorID, td.Address, td.City, td.JurisdictionCode,
				"", td.PostalOrZipCode, td.CountryCode, "", 0,
				now, now,
			),
	}

	for i, ins := range inserts {
		query, args, err := ins.PlaceholderFormat(t.dialect.Placeholder).ToSql()
		if err != nil {
			return err
		}
		if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
			return srvErrors.NewDatabaseError("insert "+StagingTables[i], err)
		}
	}

	zap.S().Named("store").Debugw("staged test record", "transaction_id", rec.TransactionID, "contract_id", rec.ContractID)
	return nil
}

func (t *StagingTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.conn.Close()
	if err := t.tx.Commit(); err != nil {
		return srvErrors.NewDatabaseError("commit", err)
	}
	return nil
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *StagingTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.conn.Close()
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return srvErrors.NewDatabaseError("rollback", err)
	}
	return nil
}

// List returns staged liens, newest first unless a sort option is given.
func (s *StagingStore) List(ctx context.Context, opts ...ListOption) ([]models.StagedLien, error) {
	builder := sq.Select(s.dialect.Columns(
		"TransactionId", "ContractId", "Reference", "BaseRegistrationNumber",
		"RegistrationDate", "ExpiryDate", "Term", "JurisdictionCode", "CreatedDateTime",
	)...).From(s.dialect.Table(TableLienInfo))

	for _, opt := range opts {
		builder = opt(s.dialect, builder)
	}

	query, args, err := builder.PlaceholderFormat(s.dialect.Placeholder).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := NewQueryInterceptor(s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, srvErrors.NewDatabaseError("list staged liens", err)
	}
	defer rows.Close()

	var liens []models.StagedLien
	for rows.Next() {
		var r stagedLienRow
		if err := rows.Scan(
			&r.transactionID,
			&r.contractID,
			&r.reference,
			&r.registrationNumber,
			&r.registrationDate,
			&r.expiryDate,
			&r.term,
			&r.jurisdictionCode,
			&r.createdDateTime,
		); err != nil {
			return nil, srvErrors.NewDatabaseError("scan staged lien", err)
		}
		liens = append(liens, r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, srvErrors.NewDatabaseError("list staged liens", err)
	}

	return liens, nil
}

// stagedLienRow holds one listed row. Staging rows written by other loaders
// may leave any of these columns NULL.
type stagedLienRow struct {
	transactionID      sql.NullString
	contractID         sql.NullString
	reference          sql.NullString
	registrationNumber sql.NullString
	registrationDate   sql.NullString
	expiryDate         sql.NullString
	term               sql.NullInt64
	jurisdictionCode   sql.NullString
	createdDateTime    sql.NullTime
}

func (r stagedLienRow) toModel() models.StagedLien {
	return models.StagedLien{
		TransactionID:      r.transactionID.String,
		ContractID:         r.contractID.String,
		Reference:          r.reference.String,
		RegistrationNumber: r.registrationNumber.String,
		RegistrationDate:   r.registrationDate.String,
		ExpiryDate:         r.expiryDate.String,
		Term:               int(r.term.Int64),
		JurisdictionCode:   r.jurisdictionCode.String,
		CreatedDateTime:    r.createdDateTime.Time,
	}
}

// Count returns the number of rows holding transactionID in each staging
// table.
func (s *StagingStore) Count(ctx context.Context, transactionID string) (map[string]int, error) {
	q := NewQueryInterceptor(s.db)
	counts := make(map[string]int, len(StagingTables))
	for _, table := range StagingTables {
		query, args, err := sq.Select("COUNT(*)").
			From(s.dialect.Table(table)).
			Where(sq.Eq{s.dialect.Quote("TransactionId"): transactionID}).
			PlaceholderFormat(s.dialect.Placeholder).
			ToSql()
		if err != nil {
			return nil, err
		}
		var n int
		if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, srvErrors.NewDatabaseError("count "+table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

type ListOption func(Dialect, sq.SelectBuilder) sq.SelectBuilder

func ByTransactionIDs(ids ...string) ListOption {
	return func(d Dialect, b sq.SelectBuilder) sq.SelectBuilder {
		if len(ids) == 0 {
			return b
		}
		return b.Where(sq.Eq{d.Quote("TransactionId"): ids})
	}
}

func ByReference(reference string) ListOption {
	return func(d Dialect, b sq.SelectBuilder) sq.SelectBuilder {
		if reference == "" {
			return b
		}
		return b.Where(sq.Eq{d.Quote("Reference"): reference})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(d Dialect, b sq.SelectBuilder) sq.SelectBuilder {
		if d.Name == SQLServer.Name {
			return b.Options("TOP " + strconv.FormatUint(limit, 10))
		}
		return b.Limit(limit)
	}
}

func WithDefaultSort() ListOption {
	return func(d Dialect, b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy(d.Quote("CreatedDateTime")+" DESC", d.Quote("TransactionId")+" DESC")
	}
}
