package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/cbo-qa/cbo-smoke/test"
	"github.com/cbo-qa/cbo-smoke/test/e2e/infra"
)

type configuration struct {
	InfraMode    string // "local" or "external"
	CBOURL       string
	FixtureURL   string
	ClientID     string
	ClientSecret string
	Scope        string
	WorkbookPath string
	Scenario     string
}

var (
	cfg          configuration
	infraManager infra.InfraManager
)

func (c configuration) Validate() error {
	if c.InfraMode != "local" && c.InfraMode != "external" {
		return fmt.Errorf("invalid infra-mode %q: must be 'local' or 'external'", c.InfraMode)
	}
	if c.InfraMode == "external" {
		if c.CBOURL == "" || c.FixtureURL == "" {
			return errors.New("cbo-url and fixture-url are required in external mode")
		}
		if c.WorkbookPath != "" {
			return errors.New("workbook is only used in local mode")
		}
	}
	if _, err := url.Parse(c.CBOURL); err != nil {
		return fmt.Errorf("failed to parse cbo url: %v", err)
	}
	if _, err := url.Parse(c.FixtureURL); err != nil {
		return fmt.Errorf("failed to parse fixture url: %v", err)
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.InfraMode, "infra-mode", "local", "Infrastructure mode: 'local' (in-process) or 'external' (deployed)")
	flag.StringVar(&cfg.CBOURL, "cbo-url", "", "CBO base url (external mode)")
	flag.StringVar(&cfg.FixtureURL, "fixture-url", "", "Fixture API base url (external mode)")
	flag.StringVar(&cfg.ClientID, "client-id", test.FakeClientID, "Client id for the token endpoint")
	flag.StringVar(&cfg.ClientSecret, "client-secret", test.FakeClientSecret, "Client secret for the token endpoint")
	flag.StringVar(&cfg.Scope, "scope", test.FakeScope, "Token scope")
	flag.StringVar(&cfg.WorkbookPath, "workbook", "", "Test data workbook (local mode, generated when empty)")
	flag.StringVar(&cfg.Scenario, "scenario", test.SmokeScenario, "Scenario to seed")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	switch cfg.InfraMode {
	case "local":
		infraManager = infra.NewLocalInfraManager()
	case "external":
		infraManager = infra.NewExternalInfraManager(cfg.CBOURL, cfg.FixtureURL)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
