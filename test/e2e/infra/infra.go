package infra

// InfraManager abstracts the lifecycle of the services the e2e suite talks to.
// Local: the fake CBO endpoints and the fixture API run in-process on DuckDB.
// External: both are deployed elsewhere and only their URLs are known.
type InfraManager interface {
	StartCBO(addr string) (string, error)
	StopCBO() error
	StartFixtureAPI(cfg FixtureConfig) (string, error)
	StopFixtureAPI() error
}

// FixtureConfig holds configuration for starting a fixture API instance.
type FixtureConfig struct {
	WorkbookPath string
	AuditDir     string
	Port         int // 0 picks a free port
}
