package services_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	"github.com/cbo-qa/cbo-smoke/internal/templating"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
	"github.com/cbo-qa/cbo-smoke/pkg/scheduler"
	"github.com/cbo-qa/cbo-smoke/test"
)

var _ = Describe("FixtureService", func() {
	var (
		ctx   context.Context
		db    *sql.DB
		sched *scheduler.Scheduler[*models.ResolvedRecord]
		svc   *services.FixtureService
	)

	BeforeEach(func() {
		ctx = context.Background()
		st, sqlDB := newStore(ctx)
		db = sqlDB

		path := filepath.Join(GinkgoT().TempDir(), "data.xlsx")
		Expect(test.WriteWorkbook(path, test.SmokeWorkbook(5))).To(Succeed())

		resolver := templating.NewResolver(templating.WithClock(steppingClock(time.Now())))
		seeder := services.NewSeeder(config.Database{Driver: config.DriverDuckDB}, st, resolver, nil, nil)
		sched = scheduler.NewScheduler[*models.ResolvedRecord](1)
		svc = services.NewFixtureService(path, seeder, st, sched)
	})

	AfterEach(func() {
		sched.Close()
		db.Close()
	})

	It("should list the rows of a scenario with its sheet name", func() {
		all, sheet, err := svc.Rows(test.SmokeScenario)
		Expect(err).NotTo(HaveOccurred())
		Expect(sheet).To(Equal(test.SmokeSheet))
		Expect(all).To(HaveLen(5))
		Expect(all[0].Value("Term")).To(Equal("2"))
	})

	It("should fail with NotFound for an unknown scenario", func() {
		_, sheet, err := svc.Rows("TC99")
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		Expect(sheet).To(Equal("TC99"))
	})

	// Given a scenario row
	// When it is seeded
	// Then the record is staged and listed by Staged
	It("should seed a row and list it", func() {
		rec, err := svc.Seed(ctx, test.SmokeScenario, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Source.CSVFileRowNumber).To(Equal("3"))

		staged, err := svc.Staged(ctx, []string{rec.TransactionID}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(staged).To(HaveLen(1))
		Expect(staged[0].Reference).To(Equal(rec.Reference))

		runID, snapshot := svc.Ledger()
		Expect(runID).NotTo(BeEmpty())
		Expect(snapshot[models.LedgerTransaction]).To(Equal([]string{rec.TransactionID}))
	})

	It("should fail with NotFound for a missing row without touching the ledger", func() {
		_, err := svc.Seed(ctx, test.SmokeScenario, 99)
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())

		_, snapshot := svc.Ledger()
		Expect(snapshot[models.LedgerTransaction]).To(BeEmpty())
	})

	// Given concurrent seed requests
	// When they run through the scheduler
	// Then every request succeeds and the ledger holds one value per request
	It("should serialize concurrent seeds", func() {
		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for n := 1; n <= 5; n++ {
			wg.Add(1)
			go func(n int) {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := svc.Seed(ctx, test.SmokeScenario, n)
				errs <- err
			}(n)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}

		_, snapshot := svc.Ledger()
		Expect(snapshot[models.LedgerTransaction]).To(HaveLen(5))

		staged, err := svc.Staged(ctx, nil, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(staged).To(HaveLen(3))
	})

	It("should return the context error when cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.Seed(cancelled, test.SmokeScenario, 1)
		Expect(err).To(HaveOccurred())
	})
})
