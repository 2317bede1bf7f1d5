// Package audit keeps a dated, append-only CSV trail of every record the
// staging pipeline wrote.
package audit

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/util"
)

// Columns is the fixed header of every audit log file. Each data row holds
// these fields followed by the time the row was written.
var Columns = []string{
	"CSVFileRowNumber", "TestScenario", "TransactionId", "ContractId", "CorporationCode",
	"ExpiryDate", "LienJurisdictionCode", "LienStatusCode", "Reference", "RegistrationDate",
	"ServiceTypeCode", "Term", "TransactionCreatedDateTime", "TransactionStatusCode",
	"ContractDebtorId", "FirstName", "LastName", "DateOfBirth", "Address", "City",
	"JurisdictionCode", "PostalOrZipCode", "CountryCode", "ContractSerialCollateralId",
	"SerialNumberOrVIN", "Make", "Model", "Year", "SerialCollateralTypeDescription",
}

type Logger struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

type Option func(*Logger)

func WithFs(fs afero.Fs) Option {
	return func(l *Logger) { l.fs = fs }
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

func NewLogger(dir string, opts ...Option) *Logger {
	l := &Logger{fs: afero.NewOsFs(), dir: dir, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// FileName returns the log file path used for records written at t.
func (l *Logger) FileName(t time.Time) string {
	return filepath.Join(l.dir, "TestDataLog_"+util.DateOnly(t.UTC())+".csv")
}

// Append writes rec to the log for the current day, creating the directory
// and the header row when needed. Failures are logged and dropped.
func (l *Logger) Append(rec models.ResolvedRecord) {
	if err := l.append(rec); err != nil {
		zap.S().Named("audit").Errorw("failed to write test data log", "dir", l.dir, "error", err)
	}
}

func (l *Logger) append(rec models.ResolvedRecord) error {
	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}

	now := l.now()
	path := l.FileName(now)

	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		return err
	}

	f, err := l.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	if !exists {
		b.WriteString(strings.Join(Columns, ","))
		b.WriteByte('\n')
	}
	fields := append(Row(rec), now.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	for i, v := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(v))
	}
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		return err
	}

	zap.S().Named("audit").Debugw("test data logged", "file", path, "transaction_id", rec.TransactionID)
	return nil
}

// Row returns the values written for rec, in Columns order.
func Row(rec models.ResolvedRecord) []string {
	td := rec.Source
	return []string{
		td.CSVFileRowNumber,
		td.TestScenario,
		rec.TransactionID,
		rec.ContractID,
		td.CorporationCode,
		rec.ExpiryDate,
		td.LienJurisdictionCode,
		td.LienStatusCode,
		rec.Reference,
		rec.RegistrationDate,
		td.ServiceTypeCode,
		strconv.Itoa(rec.Term),
		rec.TransactionCreatedDateTime,
		td.TransactionStatusCode,
		rec.ContractDebtorID,
		rec.FirstName,
		rec.LastName,
		td.DateOfBirth,
		td.Address,
		td.City,
		td.JurisdictionCode,
		td.PostalOrZipCode,
		td.CountryCode,
		rec.SerialCollateralID,
		td.SerialNumberOrVIN,
		td.Make,
		td.Model,
		td.Year,
		td.SerialCollateralTypeDescription,
	}
}

// quote always wraps v in double quotes. encoding/csv only quotes when a
// field needs it, and the log format quotes every field.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
