package rows_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/internal/rows"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

var scenarioRecords = [][]any{
	{"CSVFileRowNumber", "Test Scenario", "ContractId", "Term", "ExpiryDate"},
	{1, "first", "$GetContractID", "2", "$GetExpiryDt"},
	{2, "second", "ABC123", "5"},
	{},
	{3, "third", "", "1", "2030-01-01"},
	{4, "fourth", "X", "3"},
	{5, "fifth", "Y", "4"},
}

var _ = Describe("Source", func() {
	var (
		dir  string
		path string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "data.xlsx")
	})

	Context("Initialize", func() {
		BeforeEach(func() {
			writeWorkbook(path, map[string][][]any{
				rows.SummarySheet: {
					{"TestCaseID", "SheetName"},
					{"TC01_CBO_2under30Flag", "  Smoke  "},
					{"TC02", "Other"},
				},
				"Smoke":    scenarioRecords,
				"Other":    scenarioRecords,
				"Unmapped": scenarioRecords,
			})
		})

		// Given a scenario listed in the summary sheet
		// When the source is initialized
		// Then the mapped sheet name is used, trimmed
		It("should resolve the mapped sheet name", func() {
			s := &rows.Source{}
			Expect(s.Initialize(path, "TC01_CBO_2under30Flag")).To(Equal("Smoke"))
			Expect(s.SheetName()).To(Equal("Smoke"))
		})

		It("should fall back to the trimmed scenario id when unmapped", func() {
			s := &rows.Source{}
			Expect(s.Initialize(path, " Unmapped ")).To(Equal("Unmapped"))
		})

		It("should fall back to the scenario id when the summary sheet is absent", func() {
			noSummary := filepath.Join(dir, "nosummary.xlsx")
			writeWorkbook(noSummary, map[string][][]any{"TC09": scenarioRecords})

			s := rows.New(noSummary, "TC09 ")
			Expect(s.SheetName()).To(Equal("TC09"))

			count, err := s.RowCount()
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(5))
		})

		It("should fall back to the scenario id when the workbook cannot be read", func() {
			s := rows.New(filepath.Join(dir, "missing.xlsx"), "TC01")
			Expect(s.SheetName()).To(Equal("TC01"))
		})
	})

	Context("LoadRow", func() {
		var s *rows.Source

		BeforeEach(func() {
			writeWorkbook(path, map[string][][]any{"TC01": scenarioRecords})
			s = rows.New(path, "TC01")
		})

		// Given a sheet with five data rows
		// When a row is requested by its row number
		// Then exactly that row is returned
		It("should return the row with the matching row number", func() {
			r, err := s.LoadRow(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Value("Test Scenario")).To(Equal("second"))
			Expect(r.Value("ContractId")).To(Equal("ABC123"))

			n, ok := r.RowNumber()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(2))
		})

		It("should keep header order and leave blank cells absent", func() {
			r, err := s.LoadRow(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Keys()).To(Equal([]string{"CSVFileRowNumber", "Test Scenario", "Term", "ExpiryDate"}))

			_, ok := r.Get("ContractId")
			Expect(ok).To(BeFalse())
		})

		It("should fail with NotFound for a row number that does not exist", func() {
			_, err := s.LoadRow(9999)
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should fail with NotFound when the sheet does not exist", func() {
			missing := rows.New(path, "NoSuchSheet")
			_, err := missing.LoadRow(1)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should fail with NotFound when not initialized", func() {
			_, err := (&rows.Source{}).LoadRow(1)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should load several rows in order", func() {
			loaded, err := s.LoadRows(4, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(HaveLen(2))
			Expect(loaded[0].Value("Test Scenario")).To(Equal("fourth"))
			Expect(loaded[1].Value("Test Scenario")).To(Equal("first"))
		})
	})

	Context("re-reading", func() {
		It("should observe changes made to the workbook between calls", func() {
			writeWorkbook(path, map[string][][]any{"TC01": scenarioRecords})
			s := rows.New(path, "TC01")

			count, err := s.RowCount()
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(5))

			writeWorkbook(path, map[string][][]any{"TC01": scenarioRecords[:3]})
			count, err = s.RowCount()
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))

			all, err := s.AllRows()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})
})
