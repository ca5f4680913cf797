package timed_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yeongki/timed/internal/csvfile"
	"github.com/yeongki/timed/pkg/timed"
)

// The package-level functions share one process-wide Dispatcher, so these
// specs run serially and restore Disabled afterwards.
var _ = Describe("package-level default", Serial, func() {
	AfterEach(func() {
		timed.Set(timed.Disabled())
	})

	It("returns the same Dispatcher every time", func() {
		Expect(timed.Default()).To(BeIdenticalTo(timed.Default()))
	})

	It("round-trips Set and Get", func() {
		timed.Set(timed.StructuredLog())
		Expect(timed.Get()).To(Equal(timed.StructuredLog()))
	})

	It("re-reads TIMED_OUTPUT on Refresh", func() {
		path := filepath.Join(tempDir(), "env.csv")
		prev, had := os.LookupEnv(timed.EnvVar)
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(timed.EnvVar, prev)
			} else {
				_ = os.Unsetenv(timed.EnvVar)
			}
		})

		Expect(os.Setenv(timed.EnvVar, path)).To(Succeed())
		timed.Refresh()
		Expect(timed.Get()).To(Equal(timed.CSVFile(path)))

		timed.Record("from_default", 3)
		Expect(csvfile.ReadLines(path)).To(Equal([]string{"function,duration_ms", "from_default,3.000"}))

		Expect(os.Setenv(timed.EnvVar, "OFF")).To(Succeed())
		timed.Refresh()
		Expect(timed.Get()).To(Equal(timed.Disabled()))
	})

	It("scopes WithOutput to the context", func() {
		path := filepath.Join(tempDir(), "ctx.csv")
		ctx := timed.WithOutput(context.Background(), timed.CSVFile(path))
		timed.RecordContext(ctx, "scoped", 1)
		timed.Record("unscoped", 1)
		Expect(csvfile.ReadLines(path)).To(Equal([]string{"function,duration_ms", "scoped,1.000"}))
	})
})
