package cbo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/util"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

type ApplicationInformation struct {
	ID           string `json:"id"`
	ProviderCode string `json:"providerCode"`
	ProviderName string `json:"providerName"`
	Reference1   string `json:"reference1"`
	Reference2   string `json:"reference2"`
}

type VehicleInformation struct {
	SerialNumberOrVIN string  `json:"serialNumberOrVIN"`
	Make              string  `json:"make"`
	Model             string  `json:"model"`
	TrimOrStyle       *string `json:"trimOrStyle"`
	Type              string  `json:"type"`
	Year              string  `json:"year"`
}

type DealerInformation struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	VehicleInformations []VehicleInformation `json:"vehicleInformations"`
}

type DebtorInformation struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	DateOfBirth     string `json:"dateOfBirth"`
	BusinessName    string `json:"businessName"`
	AddressType     string `json:"addressType"`
	Address         string `json:"address"`
	City            string `json:"city"`
	Jurisdiction    string `json:"jurisdiction"`
	PostalOrZipCode string `json:"postalOrZipCode"`
	Country         string `json:"country"`
}

type LenderInformation struct {
	CmsLenderCode      string `json:"cmsLenderCode"`
	ProviderLenderName string `json:"providerLenderName"`
}

type LoanInformation struct {
	ApplicationType string `json:"applicationType"`
	LoanType        string `json:"loanType"`
}

// LookupRequest is the body of POST /api/Lookup/Debtor.
type LookupRequest struct {
	ApplicationInformation ApplicationInformation `json:"applicationInformation"`
	DealerInformation      DealerInformation      `json:"dealerInformation"`
	DebtorInformation      DebtorInformation      `json:"debtorInformation"`
	LenderInformation      LenderInformation      `json:"lenderInformation"`
	LoanInformation        LoanInformation        `json:"loanInformation"`
}

// LookupResponse keeps the two fields every successful response must carry
// and the raw body.
type LookupResponse struct {
	CboFound json.RawMessage `json:"cboFound"`
	CboTypes json.RawMessage `json:"cboTypes"`
	Raw      json.RawMessage `json:"-"`
}

// NewLookupRequest builds the lookup body from the API columns of a row and
// the debtor names generated for it. The date of birth is sent as a date
// only; an unparseable value is sent unchanged.
func NewLookupRequest(api models.LookupData, firstName, lastName string) LookupRequest {
	dob := api.DateOfBirth
	if t, err := util.ParseDate(dob); err == nil {
		dob = util.DateOnly(t)
	}

	return LookupRequest{
		ApplicationInformation: ApplicationInformation{
			ID:           api.ID,
			ProviderCode: api.ProviderCode,
			ProviderName: api.ProviderName,
			Reference1:   api.Reference1,
		},
		DealerInformation: DealerInformation{
			VehicleInformations: []VehicleInformation{{
				SerialNumberOrVIN: api.SerialNumberOrVIN,
				Make:              api.Make,
				Model:             api.Model,
				Type:              api.Type,
				Year:              api.Year,
			}},
		},
		DebtorInformation: DebtorInformation{
			ID:              api.ID,
			FirstName:       firstName,
			LastName:        lastName,
			DateOfBirth:     dob,
			AddressType:     api.AddressType,
			Address:         api.Address,
			City:            api.City,
			Jurisdiction:    api.Jurisdiction,
			PostalOrZipCode: api.PostalOrZipCode,
			Country:         api.Country,
		},
		LenderInformation: LenderInformation{
			CmsLenderCode:      api.CmsLenderCode,
			ProviderLenderName: api.ProviderLenderName,
		},
		LoanInformation: LoanInformation{
			ApplicationType: api.ApplicationType,
			LoanType:        api.LoanType,
		},
	}
}

type LookupClient struct {
	url        string
	httpClient *http.Client
}

func NewLookupClient(url string, httpClient *http.Client) *LookupClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LookupClient{url: url, httpClient: httpClient}
}

// LookupDebtor posts req with the bearer token. Only a 200 response whose
// JSON body has both cboFound and cboTypes is accepted.
func (c *LookupClient) LookupDebtor(ctx context.Context, token string, req LookupRequest) (*LookupResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	zap.S().Named("lookup").Debugw("debtor lookup request", "url", c.url, "body", string(body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("debtor lookup failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}

	zap.S().Named("lookup").Infow("debtor lookup response", "status", resp.StatusCode, "body", string(raw))

	if resp.StatusCode != http.StatusOK {
		return nil, srvErrors.NewLookupError(resp.StatusCode, string(raw), "unexpected status")
	}

	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, srvErrors.NewLookupError(resp.StatusCode, string(raw), "response is not a JSON object")
		}
	}
	found, ok := fields["cboFound"]
	if !ok {
		return nil, srvErrors.NewLookupError(resp.StatusCode, string(raw), "response has no cboFound")
	}
	types, ok := fields["cboTypes"]
	if !ok {
		return nil, srvErrors.NewLookupError(resp.StatusCode, string(raw), "response has no cboTypes")
	}

	return &LookupResponse{CboFound: found, CboTypes: types, Raw: raw}, nil
}
