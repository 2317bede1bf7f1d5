package v1

import "time"

// ErrorResponse is returned by every failing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Health struct {
	Status string `json:"status"`
	RunID  string `json:"runId"`
}

// ScenarioRows is the response of GET /scenarios/{scenario}/rows.
type ScenarioRows struct {
	Scenario string              `json:"scenario"`
	Sheet    string              `json:"sheet"`
	Total    int                 `json:"total"`
	Rows     []map[string]string `json:"rows"`
}

// SeedResult is the response of POST /scenarios/{scenario}/rows/{row}/seed.
type SeedResult struct {
	Row                        string `json:"row"`
	Scenario                   string `json:"scenario"`
	Reference                  string `json:"reference"`
	TransactionID              string `json:"transactionId"`
	RegistrationNumber         string `json:"registrationNumber"`
	RegistrationDate           string `json:"registrationDate"`
	ExpiryDate                 string `json:"expiryDate"`
	Term                       int    `json:"term"`
	ContractID                 string `json:"contractId"`
	ContractDebtorID           string `json:"contractDebtorId"`
	SerialCollateralID         string `json:"serialCollateralId"`
	FirstName                  string `json:"firstName"`
	LastName                   string `json:"lastName"`
	TransactionCreatedDateTime string `json:"transactionCreatedDateTime"`
}

// Ledger lists every generated value of the run, per field, in append order.
type Ledger struct {
	RunID  string              `json:"runId"`
	Fields map[string][]string `json:"fields"`
}

type StagedLien struct {
	TransactionID      string    `json:"transactionId"`
	ContractID         string    `json:"contractId"`
	Reference          string    `json:"reference"`
	RegistrationNumber string    `json:"registrationNumber"`
	RegistrationDate   string    `json:"registrationDate"`
	ExpiryDate         string    `json:"expiryDate"`
	Term               int       `json:"term"`
	JurisdictionCode   string    `json:"jurisdictionCode"`
	CreatedDateTime    time.Time `json:"createdDateTime"`
}

type StagedLienList struct {
	Total int          `json:"total"`
	Liens []StagedLien `json:"liens"`
}
