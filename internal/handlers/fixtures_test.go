package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/cbo-qa/cbo-smoke/api/v1"
	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/handlers"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	"github.com/cbo-qa/cbo-smoke/internal/store"
	"github.com/cbo-qa/cbo-smoke/internal/store/migrations"
	"github.com/cbo-qa/cbo-smoke/pkg/scheduler"
	"github.com/cbo-qa/cbo-smoke/test"
)

var _ = Describe("Fixture handlers", func() {
	var (
		db     *sql.DB
		sched  *scheduler.Scheduler[*models.ResolvedRecord]
		router *gin.Engine
	)

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		ctx := context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st := store.NewStore(db, store.DuckDB)

		path := filepath.Join(GinkgoT().TempDir(), "data.xlsx")
		Expect(test.WriteWorkbook(path, test.SmokeWorkbook(2))).To(Succeed())

		seeder := services.NewSeeder(config.Database{Driver: config.DriverDuckDB}, st, nil, nil, nil)
		sched = scheduler.NewScheduler[*models.ResolvedRecord](1)

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(services.NewFixtureService(path, seeder, st, sched)))
	})

	AfterEach(func() {
		sched.Close()
		db.Close()
	})

	It("should report health with the run id", func() {
		w := do(http.MethodGet, "/api/v1/health")
		Expect(w.Code).To(Equal(http.StatusOK))

		var body v1.Health
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Status).To(Equal("ok"))
		Expect(body.RunID).NotTo(BeEmpty())
	})

	Context("GET /scenarios/{scenario}/rows", func() {
		It("should return the rows of the mapped sheet", func() {
			w := do(http.MethodGet, "/api/v1/scenarios/"+test.SmokeScenario+"/rows")
			Expect(w.Code).To(Equal(http.StatusOK))

			var body v1.ScenarioRows
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Sheet).To(Equal(test.SmokeSheet))
			Expect(body.Total).To(Equal(2))
			Expect(body.Rows[1]["CSVFileRowNumber"]).To(Equal("2"))
		})

		It("should return 404 for an unknown scenario", func() {
			w := do(http.MethodGet, "/api/v1/scenarios/TC99/rows")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("POST /scenarios/{scenario}/rows/{row}/seed", func() {
		// Given a scenario row
		// When it is seeded through the API
		// Then the resolved values are returned and recorded in the ledger
		It("should seed the row", func() {
			w := do(http.MethodPost, "/api/v1/scenarios/"+test.SmokeScenario+"/rows/1/seed")
			Expect(w.Code).To(Equal(http.StatusCreated))

			var seeded v1.SeedResult
			Expect(json.Unmarshal(w.Body.Bytes(), &seeded)).To(Succeed())
			Expect(seeded.Row).To(Equal("1"))
			Expect(seeded.Term).To(Equal(2))
			Expect(seeded.TransactionID).NotTo(BeEmpty())

			w = do(http.MethodGet, "/api/v1/ledger")
			Expect(w.Code).To(Equal(http.StatusOK))

			var ledger v1.Ledger
			Expect(json.Unmarshal(w.Body.Bytes(), &ledger)).To(Succeed())
			Expect(ledger.Fields[string(models.LedgerTransaction)]).To(Equal([]string{seeded.TransactionID}))
			Expect(ledger.Fields[string(models.LedgerFirstName)]).To(Equal([]string{seeded.FirstName}))

			w = do(http.MethodGet, "/api/v1/staging?transactionId="+seeded.TransactionID)
			Expect(w.Code).To(Equal(http.StatusOK))

			var staged v1.StagedLienList
			Expect(json.Unmarshal(w.Body.Bytes(), &staged)).To(Succeed())
			Expect(staged.Total).To(Equal(1))
			Expect(staged.Liens[0].ExpiryDate).To(Equal(seeded.ExpiryDate))
		})

		It("should return 404 for a missing row", func() {
			w := do(http.MethodPost, "/api/v1/scenarios/"+test.SmokeScenario+"/rows/7/seed")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a non numeric row", func() {
			w := do(http.MethodPost, "/api/v1/scenarios/"+test.SmokeScenario+"/rows/abc/seed")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 502 when the staging tables are unavailable", func() {
			_, err := db.Exec(`DROP TABLE dbo."StagingDebtorAddress"`)
			Expect(err).NotTo(HaveOccurred())

			w := do(http.MethodPost, "/api/v1/scenarios/"+test.SmokeScenario+"/rows/1/seed")
			Expect(w.Code).To(Equal(http.StatusBadGateway))
		})
	})

	Context("GET /ledger", func() {
		It("should list every field even before seeding", func() {
			w := do(http.MethodGet, "/api/v1/ledger")
			Expect(w.Code).To(Equal(http.StatusOK))

			var ledger v1.Ledger
			Expect(json.Unmarshal(w.Body.Bytes(), &ledger)).To(Succeed())
			Expect(ledger.Fields).To(HaveLen(len(models.LedgerFields)))
			Expect(ledger.Fields[string(models.LedgerReference)]).To(BeEmpty())
		})
	})

	Context("GET /staging", func() {
		It("should reject an invalid limit", func() {
			w := do(http.MethodGet, "/api/v1/staging?limit=-1")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return an empty list when nothing is staged", func() {
			w := do(http.MethodGet, "/api/v1/staging")
			Expect(w.Code).To(Equal(http.StatusOK))

			var staged v1.StagedLienList
			Expect(json.Unmarshal(w.Body.Bytes(), &staged)).To(Succeed())
			Expect(staged.Total).To(Equal(0))
		})
	})
})
