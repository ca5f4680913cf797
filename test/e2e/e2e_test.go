/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/common/expfmt"

	"github.com/yeongki/timed/internal/check"
	"github.com/yeongki/timed/internal/csvfile"
	"github.com/yeongki/timed/pkg/timed"
)

// runCheck executes timed-check with args and returns its combined output.
func runCheck(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := check.NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	_, _ = GinkgoWriter.Write(out.Bytes())
	return out.String(), err
}

// setEnv sets key for the current test only.
func setEnv(key, value string) {
	prev, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

var _ = Describe("timed-check", Ordered, func() {
	var dir string

	BeforeAll(func() {
		var err error
		dir, err = os.MkdirTemp("", "timed-e2e-")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	It("passes all scenarios with defaults", func() {
		csvPath := filepath.Join(dir, "defaults.csv")
		out, err := runCheck("--csv", csvPath)
		Expect(err).NotTo(HaveOccurred())
		for _, name := range []string{"seed", "structured-log", "csv", "disabled"} {
			Expect(out).To(MatchRegexp(`(?m)^%s\s+pass`, name))
		}

		lines, err := csvfile.ReadLines(csvPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(4))
		Expect(lines[0]).To(Equal("function,duration_ms"))
	})

	It("writes a JSON report", func() {
		report := filepath.Join(dir, "reports", "check.json")
		_, err := runCheck("--csv", filepath.Join(dir, "report.csv"), "--report", report, "--iterations", "3")
		Expect(err).NotTo(HaveOccurred())

		b, err := os.ReadFile(report)
		Expect(err).NotTo(HaveOccurred())
		var rep check.Report
		Expect(json.Unmarshal(b, &rep)).To(Succeed())
		Expect(rep.Passed).To(BeTrue())
		Expect(rep.Scenarios[2].Rows).To(Equal(9))
	})

	It("seeds from TIMED_OUTPUT", func() {
		seeded := filepath.Join(dir, "from-env.csv")
		setEnv(timed.EnvVar, "  "+seeded+" ")
		out, err := runCheck("--csv", filepath.Join(dir, "env.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("csv(" + seeded + ")"))
		Expect(seeded).To(BeARegularFile())
	})

	It("prefers --output over TIMED_OUTPUT", func() {
		setEnv(timed.EnvVar, "off")
		out, err := runCheck("--csv", filepath.Join(dir, "flag.csv"), "--output", "TRACING")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchRegexp(`(?m)^seed\s+pass\s+tracing$`))
	})

	It("prints parseable metrics", func() {
		out, err := runCheck("--csv", filepath.Join(dir, "metrics.csv"), "--metrics", "--zap-log-level", "error")
		Expect(err).NotTo(HaveOccurred())

		idx := strings.Index(out, "# HELP timed_records_total")
		Expect(idx).To(BeNumerically(">=", 0))
		var parser expfmt.TextParser
		families, err := parser.TextToMetricFamilies(strings.NewReader(out[idx:]))
		Expect(err).NotTo(HaveOccurred())
		Expect(families).To(HaveKey("timed_records_total"))

		byOutput := map[string]float64{}
		for _, m := range families["timed_records_total"].GetMetric() {
			byOutput[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
		Expect(byOutput).To(HaveKeyWithValue("csv", 3.0))
		Expect(byOutput).To(HaveKeyWithValue("tracing", 3.0))
	})

	It("fails when the CSV file cannot be created", func() {
		out, err := runCheck("--csv", filepath.Join(dir, "missing", "x.csv"))
		Expect(err).To(MatchError(check.ErrFailed))
		Expect(out).To(MatchRegexp(`(?m)^csv\s+fail`))
	})
})
