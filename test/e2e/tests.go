package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/pkg/cbo"
	"github.com/cbo-qa/cbo-smoke/test"
	"github.com/cbo-qa/cbo-smoke/test/e2e/infra"
	"github.com/cbo-qa/cbo-smoke/test/e2e/service"
)

var (
	fixtureSvc *service.FixtureSvc
	cboURL     string
	workDir    string
)

var _ = BeforeSuite(func() {
	var err error
	workDir, err = os.MkdirTemp("", "cbo-smoke-e2e-")
	Expect(err).NotTo(HaveOccurred())

	workbook := cfg.WorkbookPath
	if workbook == "" && cfg.InfraMode == "local" {
		workbook = filepath.Join(workDir, "data.xlsx")
		Expect(test.WriteWorkbook(workbook, test.SmokeWorkbook(3))).To(Succeed())
	}

	cboURL, err = infraManager.StartCBO("127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	fixtureURL, err := infraManager.StartFixtureAPI(infra.FixtureConfig{
		WorkbookPath: workbook,
		AuditDir:     filepath.Join(workDir, "logs"),
	})
	Expect(err).NotTo(HaveOccurred())

	fixtureSvc = service.NewFixtureService(fixtureURL)
	Eventually(func() error {
		_, err := fixtureSvc.Health(context.Background())
		return err
	}).WithTimeout(10 * time.Second).Should(Succeed())
})

var _ = AfterSuite(func() {
	Expect(infraManager.StopFixtureAPI()).To(Succeed())
	Expect(infraManager.StopCBO()).To(Succeed())
	_ = os.RemoveAll(workDir)
})

var _ = Describe("Fixture API", Ordered, func() {
	var (
		ctx    context.Context
		seeded []string
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("lists the scenario rows", func() {
		rows, err := fixtureSvc.Rows(ctx, cfg.Scenario)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows.Total).To(BeNumerically(">", 0))
	})

	// Given the scenario rows
	// When each row is seeded
	// Then every row is staged with an expiry of Term years after registration
	It("seeds every row", func() {
		rows, err := fixtureSvc.Rows(ctx, cfg.Scenario)
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i <= rows.Total; i++ {
			res, err := fixtureSvc.Seed(ctx, cfg.Scenario, i)
			Expect(err).NotTo(HaveOccurred())

			reg, err := time.Parse(time.DateOnly, res.RegistrationDate)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExpiryDate).To(Equal(reg.AddDate(res.Term, 0, 0).Format(time.DateOnly)))

			seeded = append(seeded, res.TransactionID)
		}

		staged, err := fixtureSvc.Staged(ctx, seeded...)
		Expect(err).NotTo(HaveOccurred())
		Expect(staged.Total).To(BeNumerically(">=", 1))
	})

	It("records one ledger value per seeded row", func() {
		ledger, err := fixtureSvc.Ledger(ctx)
		Expect(err).NotTo(HaveOccurred())
		for _, f := range models.LedgerFields {
			Expect(ledger.Fields[string(f)]).To(HaveLen(len(seeded)), string(f))
		}
		Expect(ledger.Fields[string(models.LedgerTransaction)]).To(Equal(seeded))
	})

	It("rejects a row that does not exist", func() {
		_, err := fixtureSvc.Seed(ctx, cfg.Scenario, 9999)
		var statusErr *service.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.Code).To(Equal(http.StatusNotFound))
	})

	// Given the names generated by the last seed
	// When the debtor lookup is called with a fresh token
	// Then the CBO answers with cboFound and cboTypes
	It("looks the last generated debtor up", func() {
		ledger, err := fixtureSvc.Ledger(ctx)
		Expect(err).NotTo(HaveOccurred())
		first := ledger.Fields[string(models.LedgerFirstName)]
		last := ledger.Fields[string(models.LedgerLastName)]
		Expect(first).NotTo(BeEmpty())

		tok, err := cbo.NewTokenSource(config.Auth{
			TokenURL:     cboURL + test.TokenPath,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scope:        cfg.Scope,
			MaxElapsed:   30 * time.Second,
		}).Fetch(ctx)
		Expect(err).NotTo(HaveOccurred())

		req := cbo.NewLookupRequest(models.LookupData{ID: "900001", DateOfBirth: "1980-05-17"}, first[len(first)-1], last[len(last)-1])
		resp, err := cbo.NewLookupClient(cboURL+test.LookupPath, nil).LookupDebtor(ctx, tok.AccessToken, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.CboFound).NotTo(BeEmpty())
		Expect(resp.CboTypes).NotTo(BeEmpty())
	})
})
