package models

import "time"

// StagedLien is a row read back from the lien staging table.
type StagedLien struct {
	TransactionID      string
	ContractID         string
	Reference          string
	RegistrationNumber string
	RegistrationDate   string
	ExpiryDate         string
	Term               int
	JurisdictionCode   string
	CreatedDateTime    time.Time
}
