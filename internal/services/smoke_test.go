package services_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/rows"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	"github.com/cbo-qa/cbo-smoke/internal/templating"
	"github.com/cbo-qa/cbo-smoke/pkg/cbo"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
	"github.com/cbo-qa/cbo-smoke/test"
)

type fakeTrigger struct {
	calls int
	count int
	err   error
}

func (f *fakeTrigger) TriggerRecurringJob(_ context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

var _ = Describe("SmokeRunner", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		fake   *test.FakeCBO
		seeder *services.Seeder
		runner *services.SmokeRunner
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		fake, err = test.NewFakeCBO("127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		st, sqlDB := newStore(ctx)
		db = sqlDB

		resolver := templating.NewResolver(templating.WithClock(steppingClock(time.Now())))
		seeder = services.NewSeeder(config.Database{Driver: config.DriverDuckDB}, st, resolver, nil, nil)

		path := filepath.Join(GinkgoT().TempDir(), "data.xlsx")
		Expect(test.WriteWorkbook(path, test.SmokeWorkbook(2))).To(Succeed())

		tokens := cbo.NewTokenSource(config.Auth{
			TokenURL:     fake.TokenURL(),
			ClientID:     test.FakeClientID,
			ClientSecret: test.FakeClientSecret,
			Scope:        test.FakeScope,
			MaxElapsed:   5 * time.Second,
		})
		runner = services.NewSmokeRunner(rows.New(path, test.SmokeScenario), seeder, tokens, cbo.NewLookupClient(fake.LookupURL(), nil))
	})

	AfterEach(func() {
		db.Close()
		Expect(fake.Stop()).To(Succeed())
	})

	// Given a staged row
	// When the smoke run looks the debtor up
	// Then the request carries the generated names and the lookup response is returned
	It("should look the debtor up with the generated names", func() {
		result, err := runner.Run(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Triggered).To(BeFalse())
		Expect(result.Lookup).NotTo(BeNil())
		Expect(string(result.Lookup.CboFound)).To(Equal("true"))

		requests := fake.LookupRequests()
		Expect(requests).To(HaveLen(1))

		var body cbo.LookupRequest
		Expect(json.Unmarshal(requests[0], &body)).To(Succeed())
		Expect(body.DebtorInformation.FirstName).To(Equal(result.Record.FirstName))
		Expect(body.DebtorInformation.LastName).To(Equal(result.Record.LastName))
		Expect(body.DebtorInformation.DateOfBirth).To(Equal("1980-05-17"))
		Expect(body.ApplicationInformation.ID).To(Equal("900001"))
	})

	It("should use the names of the most recent insertion", func() {
		_, err := runner.Run(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		second, err := runner.Run(ctx, 2)
		Expect(err).NotTo(HaveOccurred())

		requests := fake.LookupRequests()
		Expect(requests).To(HaveLen(2))

		var body cbo.LookupRequest
		Expect(json.Unmarshal(requests[1], &body)).To(Succeed())
		Expect(body.DebtorInformation.FirstName).To(Equal(second.Record.FirstName))
	})

	It("should trigger the recurring job between staging and lookup", func() {
		trigger := &fakeTrigger{count: 1}
		result, err := runner.WithTrigger(trigger, 0).Run(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(trigger.calls).To(Equal(1))
		Expect(result.Triggered).To(BeTrue())
		Expect(result.Processing).To(Equal(1))
		Expect(result.Lookup).NotTo(BeNil())
	})

	It("should stop before the lookup when the trigger fails", func() {
		trigger := &fakeTrigger{err: errors.New("dashboard unavailable")}
		result, err := runner.WithTrigger(trigger, 0).Run(ctx, 1)
		Expect(err).To(HaveOccurred())
		Expect(result.Record).NotTo(BeNil())
		Expect(fake.LookupRequests()).To(BeEmpty())
	})

	It("should fail with NotFound for a missing row", func() {
		_, err := runner.Run(ctx, 42)
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		Expect(fake.TokenRequests()).To(Equal(0))
	})

	It("should surface lookup errors", func() {
		fake.SetLookupResponse(500, `{"error":"boom"}`)
		_, err := runner.Run(ctx, 1)
		Expect(srvErrors.IsLookupError(err)).To(BeTrue())
	})

	Context("LookupLast", func() {
		// Given nothing has been staged
		// When a lookup is requested
		// Then it fails without requesting a token
		It("should fail when the ledger is empty", func() {
			_, err := runner.LookupLast(ctx, models.LookupData{ID: "1"})
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
			Expect(fake.TokenRequests()).To(Equal(0))
		})

		It("should use values appended to the ledger", func() {
			seeder.Ledger().Append(models.LedgerFirstName, "Ada")
			seeder.Ledger().Append(models.LedgerLastName, "Lovelace")

			_, err := runner.LookupLast(ctx, models.LookupData{ID: "1"})
			Expect(err).NotTo(HaveOccurred())

			var body cbo.LookupRequest
			Expect(json.Unmarshal(fake.LookupRequests()[0], &body)).To(Succeed())
			Expect(body.DebtorInformation.FirstName).To(Equal("Ada"))
			Expect(body.DebtorInformation.LastName).To(Equal("Lovelace"))
		})
	})
})
