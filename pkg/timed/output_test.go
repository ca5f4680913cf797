package timed_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yeongki/timed/pkg/timed"
)

var _ = Describe("Output", func() {
	It("defaults to Disabled", func() {
		var out timed.Output
		Expect(out).To(Equal(timed.Disabled()))
		Expect(out.Kind()).To(Equal(timed.KindDisabled))
		Expect(out.Path()).To(BeEmpty())
	})

	It("keeps the CSV path", func() {
		out := timed.CSVFile("results/out.csv")
		Expect(out.Kind()).To(Equal(timed.KindCSV))
		Expect(out.Path()).To(Equal("results/out.csv"))
		Expect(out.String()).To(Equal("csv(results/out.csv)"))
	})

	DescribeTable("ParseOutput",
		func(seed string, want timed.Output) {
			Expect(timed.ParseOutput(seed)).To(Equal(want))
		},
		Entry("empty", "", timed.Disabled()),
		Entry("blank", "   ", timed.Disabled()),
		Entry("off", "off", timed.Disabled()),
		Entry("OFF padded", "  OFF ", timed.Disabled()),
		Entry("tracing", "tracing", timed.StructuredLog()),
		Entry("TRACING", "TRACING", timed.StructuredLog()),
		Entry("Tracing padded", "\tTracing\n", timed.StructuredLog()),
		Entry("csv path", "out.csv", timed.CSVFile("out.csv")),
		Entry("csv path trimmed", "  /tmp/x y.csv ", timed.CSVFile("/tmp/x y.csv")),
		Entry("csv path keeps case", "Timing.CSV", timed.CSVFile("Timing.CSV")),
	)

	DescribeTable("FormatDuration",
		func(ms float64, want string) {
			Expect(timed.FormatDuration(ms)).To(Equal(want))
		},
		Entry("zero", 0.0, "0.000"),
		Entry("rounds", 1.23456, "1.235"),
		Entry("pads", 100.5, "100.500"),
		Entry("negative clamps", -3.0, "0.000"),
	)
})
