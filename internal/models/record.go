package models

// LedgerField names one generated-value sequence.
type LedgerField string

const (
	LedgerReference          LedgerField = "reference"
	LedgerTransaction        LedgerField = "transaction"
	LedgerRegistrationNumber LedgerField = "registration_number"
	LedgerContract           LedgerField = "contract"
	LedgerContractDebtor     LedgerField = "contract_debtor"
	LedgerSerialCollateral   LedgerField = "serial_collateral"
	LedgerFirstName          LedgerField = "first_name"
	LedgerLastName           LedgerField = "last_name"
	LedgerTransactionCreated LedgerField = "transaction_created"
)

// LedgerFields lists every ledger sequence in append order.
var LedgerFields = []LedgerField{
	LedgerContract,
	LedgerTransaction,
	LedgerRegistrationNumber,
	LedgerContractDebtor,
	LedgerTransactionCreated,
	LedgerSerialCollateral,
	LedgerFirstName,
	LedgerLastName,
	LedgerReference,
}

// LedgerEntry is one value to record for a ledger field.
type LedgerEntry struct {
	Field LedgerField
	Value string
}

// ResolvedRecord is a test data row with every placeholder replaced by a
// concrete value.
type ResolvedRecord struct {
	Source TestData

	Reference                  string
	TransactionID              string
	RegistrationNumber         string
	RegistrationDate           string
	ExpiryDate                 string
	ContractID                 string
	ContractDebtorID           string
	SerialCollateralID         string
	FirstName                  string
	LastName                   string
	TransactionCreatedDateTime string
	Term                       int
}

// LedgerEntries returns the values the record contributes to the ledger.
func (r ResolvedRecord) LedgerEntries() []LedgerEntry {
	values := map[LedgerField]string{
		LedgerContract:           r.ContractID,
		LedgerTransaction:        r.TransactionID,
		LedgerRegistrationNumber: r.RegistrationNumber,
		LedgerContractDebtor:     r.ContractDebtorID,
		LedgerTransactionCreated: r.TransactionCreatedDateTime,
		LedgerSerialCollateral:   r.SerialCollateralID,
		LedgerFirstName:          r.FirstName,
		LedgerLastName:           r.LastName,
		LedgerReference:          r.Reference,
	}
	entries := make([]LedgerEntry, 0, len(LedgerFields))
	for _, f := range LedgerFields {
		entries = append(entries, LedgerEntry{Field: f, Value: values[f]})
	}
	return entries
}
