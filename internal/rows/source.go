package rows

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

const (
	SummarySheet       = "TestDataSummary"
	summaryScenarioCol = "TestCaseID"
	summarySheetCol    = "SheetName"
)

// Source reads scenario rows from a workbook. The workbook is re-opened on
// every call so edits between calls are picked up.
type Source struct {
	path  string
	sheet string
}

// New creates a Source and resolves the sheet for scenarioID.
func New(path, scenarioID string) *Source {
	s := &Source{}
	s.Initialize(path, scenarioID)
	return s
}

// Initialize resolves which sheet holds the data for scenarioID. The summary
// sheet maps scenario identifiers to sheet names; when it is missing or has
// no entry the trimmed identifier is used as the sheet name.
func (s *Source) Initialize(path, scenarioID string) string {
	s.path = path

	summary, err := readSheet(path, SummarySheet)
	if err != nil {
		zap.S().Named("row_source").Debugw("summary sheet unavailable, using scenario id as sheet name", "scenario", scenarioID, "error", err)
		s.sheet = strings.TrimSpace(scenarioID)
		return s.sheet
	}

	s.sheet = strings.TrimSpace(scenarioID)
	for _, row := range summary {
		if row.Value(summaryScenarioCol) == scenarioID {
			s.sheet = strings.TrimSpace(row.Value(summarySheetCol))
			break
		}
	}

	zap.S().Named("row_source").Debugw("resolved test data sheet", "scenario", scenarioID, "sheet", s.sheet)
	return s.sheet
}

func (s *Source) SheetName() string {
	return s.sheet
}

func (s *Source) Path() string {
	return s.path
}

// LoadRow returns the row whose row number field equals n.
func (s *Source) LoadRow(n int) (models.ScenarioRow, error) {
	rows, err := s.AllRows()
	if err != nil {
		return models.ScenarioRow{}, err
	}
	for _, r := range rows {
		if num, ok := r.RowNumber(); ok && num == n {
			return r, nil
		}
	}
	return models.ScenarioRow{}, srvErrors.NewRowNotFoundError(s.sheet, n)
}

// LoadRows loads each requested row, failing on the first missing one.
func (s *Source) LoadRows(numbers ...int) ([]models.ScenarioRow, error) {
	out := make([]models.ScenarioRow, 0, len(numbers))
	for _, n := range numbers {
		r, err := s.LoadRow(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Source) RowCount() (int, error) {
	rows, err := s.AllRows()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *Source) AllRows() ([]models.ScenarioRow, error) {
	if s.path == "" || s.sheet == "" {
		return nil, srvErrors.NewSourceNotInitializedError()
	}
	return readSheet(s.path, s.sheet)
}

// readSheet returns the data rows of sheet keyed by the header row. Blank
// cells are left out of the row and blank rows are skipped.
func readSheet(path, sheet string) ([]models.ScenarioRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet = strings.TrimSpace(sheet)
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, srvErrors.NewSheetNotFoundError(sheet)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	out := make([]models.ScenarioRow, 0, len(records)-1)
	for _, record := range records[1:] {
		keys := make([]string, 0, len(header))
		values := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) || record[i] == "" {
				continue
			}
			keys = append(keys, name)
			values[name] = record[i]
		}
		if len(keys) == 0 {
			continue
		}
		out = append(out, models.NewScenarioRow(keys, values))
	}
	return out, nil
}
