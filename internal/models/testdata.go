package models

// TestData is the typed view of a scenario row used by the staging pipeline
// and the debtor lookup.
type TestData struct {
	CSVFileRowNumber string
	TestScenario     string

	TransactionID              string
	ContractID                 string
	CorporationCode            string
	BaseRegistrationNumber     string
	ExpiryDate                 *string
	LienJurisdictionCode       string
	LienStatusCode             string
	Reference                  string
	RegistrationDate           string
	ServiceTypeCode            string
	Term                       string
	TransactionCreatedDateTime string
	TransactionStatusCode      string

	ContractDebtorID string
	FirstName        string
	LastName         string
	DateOfBirth      string
	Address          string
	City             string
	JurisdictionCode string
	PostalOrZipCode  string
	CountryCode      string

	ContractSerialCollateralID      string
	SerialNumberOrVIN               string
	Make                            string
	Model                           string
	Year                            string
	SerialCollateralTypeDescription string

	API LookupData
}

// LookupData holds the API* columns describing the debtor lookup request.
type LookupData struct {
	ID                 string
	ProviderCode       string
	ProviderName       string
	Reference1         string
	SerialNumberOrVIN  string
	Make               string
	Model              string
	TrimOrStyle        string
	Type               string
	Year               string
	FirstName          string
	LastName           string
	DateOfBirth        string
	AddressType        string
	Address            string
	City               string
	Jurisdiction       string
	PostalOrZipCode    string
	Country            string
	CmsLenderCode      string
	ProviderLenderName string
	ApplicationType    string
	LoanType           string
}

// NewTestData projects a scenario row onto TestData. ExpiryDate is read from
// both "ExpiryDate" and "expiryDate" because workbooks use either spelling;
// it stays nil when neither column is present.
func NewTestData(r ScenarioRow) TestData {
	td := TestData{
		CSVFileRowNumber:                r.Value(RowNumberField),
		TestScenario:                    r.Value("Test Scenario"),
		TransactionID:                   r.Value("TransactionId"),
		ContractID:                      r.Value("ContractId"),
		CorporationCode:                 r.Value("CorporationCode"),
		BaseRegistrationNumber:          r.Value("BaseRegistrationNumber"),
		LienJurisdictionCode:            r.Value("LienJurisdictionCode"),
		LienStatusCode:                  r.Value("LienStatusCode"),
		Reference:                       r.Value("Reference"),
		RegistrationDate:                r.Value("RegistrationDate"),
		ServiceTypeCode:                 r.Value("ServiceTypeCode"),
		Term:                            r.Value("Term"),
		TransactionCreatedDateTime:      r.Value("TransactionCreatedDateTime"),
		TransactionStatusCode:           r.Value("TransactionStatusCode"),
		ContractDebtorID:                r.Value("ContractDebtorId"),
		FirstName:                       r.Value("FirstName"),
		LastName:                        r.Value("LastName"),
		DateOfBirth:                     r.Value("DateOfBirth"),
		Address:                         r.Value("Address"),
		City:                            r.Value("City"),
		JurisdictionCode:                r.Value("JurisdictionCode"),
		PostalOrZipCode:                 r.Value("PostalOrZipCode"),
		CountryCode:                     r.Value("CountryCode"),
		ContractSerialCollateralID:      r.Value("ContractSerialCollateralId"),
		SerialNumberOrVIN:               r.Value("SerialNumberOrVIN"),
		Make:                            r.Value("Make"),
		Model:                           r.Value("Model"),
		Year:                            r.Value("Year"),
		SerialCollateralTypeDescription: r.Value("SerialCollateralTypeDescription"),
		API: LookupData{
			ID:                 r.Value("APIid"),
			ProviderCode:       r.Value("APIproviderCode"),
			ProviderName:       r.Value("APIproviderName"),
			Reference1:         r.Value("APIreference1"),
			SerialNumberOrVIN:  r.Value("APIserialNumberOrVIN"),
			Make:               r.Value("APImake"),
			Model:              r.Value("APImodel"),
			TrimOrStyle:        r.Value("APItrimOrStyle"),
			Type:               r.Value("APItype"),
			Year:               r.Value("APIyear"),
			FirstName:          r.Value("APIfirstName"),
			LastName:           r.Value("APIlastName"),
			DateOfBirth:        r.Value("APIdateOfBirth"),
			AddressType:        r.Value("APIaddressType"),
			Address:            r.Value("APIaddress"),
			City:               r.Value("APIcity"),
			Jurisdiction:       r.Value("APIjurisdiction"),
			PostalOrZipCode:    r.Value("APIpostalOrZipCode"),
			Country:            r.Value("APIcountry"),
			CmsLenderCode:      r.Value("APIcmsLenderCode"),
			ProviderLenderName: r.Value("APIproviderLenderName"),
			ApplicationType:    r.Value("APIapplicationType"),
			LoanType:           r.Value("APIloanType"),
		},
	}

	if v, ok := r.Get("ExpiryDate"); ok {
		td.ExpiryDate = &v
	} else if v, ok := r.Get("expiryDate"); ok {
		td.ExpiryDate = &v
	}

	return td
}
