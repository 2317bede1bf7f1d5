package util_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/internal/util"
)

var _ = Describe("util", func() {
	DescribeTable("AtoiOrZero",
		func(in string, want int) {
			Expect(util.AtoiOrZero(in)).To(Equal(want))
		},
		Entry("plain", "2", 2),
		Entry("padded", " 5 ", 5),
		Entry("float", "2.0", 2),
		Entry("with unit", "3 years", 3),
		Entry("empty", "", 0),
		Entry("text", "two", 0),
	)

	DescribeTable("LastDigits",
		func(v int64, n int, want string) {
			Expect(util.LastDigits(v, n)).To(Equal(want))
		},
		Entry("longer than n", int64(1773565625123), 9, "565625123"),
		Entry("exactly n", int64(123456789), 9, "123456789"),
		Entry("shorter than n", int64(42), 9, "42"),
	)

	DescribeTable("ParseDate",
		func(in string) {
			t, err := util.ParseDate(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(util.DateOnly(t)).To(Equal("1980-05-17"))
		},
		Entry("iso date", "1980-05-17"),
		Entry("us date", "5/17/1980"),
		Entry("padded us date", "05/17/1980"),
		Entry("timestamp", "1980-05-17T00:00:00Z"),
		Entry("long form", "May 17, 1980"),
	)

	It("should reject empty and unknown dates", func() {
		_, err := util.ParseDate("")
		Expect(err).To(HaveOccurred())
		_, err = util.ParseDate("17th of May")
		Expect(err).To(HaveOccurred())
	})

	It("should read zone-less dates as UTC", func() {
		t, err := util.ParseDate("2026-03-15 09:07:05")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Location()).To(Equal(time.UTC))
	})

	It("should dereference optional strings", func() {
		s := "x"
		Expect(util.StringOrEmpty(&s)).To(Equal("x"))
		Expect(util.StringOrEmpty(nil)).To(BeEmpty())
	})
})
