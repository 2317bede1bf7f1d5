package v1

import (
	"github.com/cbo-qa/cbo-smoke/internal/models"
)

// NewScenarioRows converts workbook rows to the API response.
func NewScenarioRows(scenario, sheet string, rows []models.ScenarioRow) ScenarioRows {
	out := ScenarioRows{
		Scenario: scenario,
		Sheet:    sheet,
		Total:    len(rows),
		Rows:     make([]map[string]string, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, r.Map())
	}
	return out
}

func NewSeedResult(rec models.ResolvedRecord) SeedResult {
	return SeedResult{
		Row:                        rec.Source.CSVFileRowNumber,
		Scenario:                   rec.Source.TestScenario,
		Reference:                  rec.Reference,
		TransactionID:              rec.TransactionID,
		RegistrationNumber:         rec.RegistrationNumber,
		RegistrationDate:           rec.RegistrationDate,
		ExpiryDate:                 rec.ExpiryDate,
		Term:                       rec.Term,
		ContractID:                 rec.ContractID,
		ContractDebtorID:           rec.ContractDebtorID,
		SerialCollateralID:         rec.SerialCollateralID,
		FirstName:                  rec.FirstName,
		LastName:                   rec.LastName,
		TransactionCreatedDateTime: rec.TransactionCreatedDateTime,
	}
}

// NewLedger converts a ledger snapshot. Every known field is present, empty
// sequences included.
func NewLedger(runID string, snapshot map[models.LedgerField][]string) Ledger {
	l := Ledger{RunID: runID, Fields: make(map[string][]string, len(models.LedgerFields))}
	for _, f := range models.LedgerFields {
		values := snapshot[f]
		if values == nil {
			values = []string{}
		}
		l.Fields[string(f)] = values
	}
	return l
}

func NewStagedLienList(liens []models.StagedLien) StagedLienList {
	out := StagedLienList{Total: len(liens), Liens: make([]StagedLien, 0, len(liens))}
	for _, s := range liens {
		out.Liens = append(out.Liens, StagedLien{
			TransactionID:      s.TransactionID,
			ContractID:         s.ContractID,
			Reference:          s.Reference,
			RegistrationNumber: s.RegistrationNumber,
			RegistrationDate:   s.RegistrationDate,
			ExpiryDate:         s.ExpiryDate,
			Term:               s.Term,
			JurisdictionCode:   s.JurisdictionCode,
			CreatedDateTime:    s.CreatedDateTime,
		})
	}
	return out
}
