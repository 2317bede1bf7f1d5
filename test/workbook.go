package test

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SmokeScenario = "TC01_CBO_2under30Flag"
	SmokeSheet    = "CBO_Smoke"
)

// SmokeHeader is the header of a complete scenario sheet.
var SmokeHeader = []any{
	"CSVFileRowNumber", "Test Scenario", "TransactionId", "ContractId", "CorporationCode",
	"BaseRegistrationNumber", "ExpiryDate", "LienJurisdictionCode", "LienStatusCode", "Reference",
	"RegistrationDate", "ServiceTypeCode", "Term", "TransactionCreatedDateTime",
	"TransactionStatusCode", "ContractDebtorId", "FirstName", "LastName", "DateOfBirth",
	"Address", "City", "JurisdictionCode", "PostalOrZipCode", "CountryCode",
	"ContractSerialCollateralId", "SerialNumberOrVIN", "Make", "Model", "Year",
	"SerialCollateralTypeDescription", "APIid", "APIproviderCode", "APIfirstName",
	"APIdateOfBirth", "APImake", "APIyear",
}

// SmokeRow returns a row where every generated field carries its sentinel.
func SmokeRow(n int, jurisdiction string) []any {
	return []any{
		n, fmt.Sprintf("smoke row %d", n), "$GetTransactionID", "$GetContractID", "DH",
		"", "$GetExpiryDt", jurisdiction, "ACTIVE", "$Getreference",
		"$GetCurrentDateMinus35", "REG", "2", "$GetTransactionCreatedDateTime",
		"NEW", "$GetContractDebtorID", "$GetFirstName", "$GetLastName", "1980-05-17",
		"1 Main St", "Toronto", "ON", "M5V 1A1", "CA",
		"$GetContractSerialCollateralId", "1FTFW1E50NFA00001", "Ford", "F-150", "2022",
		"Motor Vehicle", "900001", "DH", "ignored", "5/17/1980", "Ford", "2022",
	}
}

// SmokeWorkbook returns the sheets of a workbook mapping SmokeScenario to
// SmokeSheet with rows 1..n.
func SmokeWorkbook(n int) map[string][][]any {
	records := [][]any{SmokeHeader}
	for i := 1; i <= n; i++ {
		records = append(records, SmokeRow(i, "ON"))
	}
	return map[string][][]any{
		"TestDataSummary": {
			{"TestCaseID", "SheetName"},
			{SmokeScenario, " " + SmokeSheet + " "},
		},
		SmokeSheet: records,
	}
}

// WriteWorkbook saves a workbook with one sheet per entry; the first record
// of each sheet is its header row.
func WriteWorkbook(path string, sheets map[string][][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for name, records := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		for i, record := range records {
			row := record
			if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+1), &row); err != nil {
				return err
			}
		}
	}
	if _, ok := sheets["Sheet1"]; !ok {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
