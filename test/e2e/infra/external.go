package infra

// ExternalInfraManager implements InfraManager for deployed environments.
// Nothing is started; the configured URLs are returned as is.
type ExternalInfraManager struct {
	cboURL     string
	fixtureURL string
}

func NewExternalInfraManager(cboURL, fixtureURL string) *ExternalInfraManager {
	return &ExternalInfraManager{cboURL: cboURL, fixtureURL: fixtureURL}
}

func (e *ExternalInfraManager) StartCBO(_ string) (string, error) { return e.cboURL, nil }
func (e *ExternalInfraManager) StopCBO() error                    { return nil }
func (e *ExternalInfraManager) StopFixtureAPI() error             { return nil }

func (e *ExternalInfraManager) StartFixtureAPI(_ FixtureConfig) (string, error) {
	return e.fixtureURL, nil
}
