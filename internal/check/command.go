package check

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/yeongki/timed/internal/artifacts"
	"github.com/yeongki/timed/pkg/timed"
	"github.com/yeongki/timed/pkg/timed/instrument"
)

// NewCommand builds the timed-check command. Every flag can also be set
// through the environment (TIMED_CHECK_<FLAG>); --output additionally
// honors TIMED_OUTPUT, the same variable the library seeds from.
func NewCommand() *cobra.Command {
	v := viper.New()
	zopts := crzap.Options{Development: true}

	cmd := &cobra.Command{
		Use:   "timed-check",
		Short: "Verify timing outputs end to end",
		Long: `timed-check calls instrumented functions under every timing output
(structured log, CSV file, disabled) and verifies what each one produced.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), v, &zopts)
		},
	}

	fs := cmd.Flags()
	fs.String("output", "", `seed checked by the seed scenario: "off", "tracing" or a CSV path`)
	fs.String("csv", "timing_results.csv", "CSV file used by the csv scenarios")
	fs.Int("iterations", 1, "calls per instrumented function and scenario")
	fs.String("level", "", "level of the configured function: trace|debug|info|warn|error")
	fs.String("name", "", "label override of the configured function")
	fs.String("report", "", "write a JSON report to this path")
	fs.Bool("metrics", false, "print timed_* metrics in Prometheus text format when done")
	fs.String("otlp-endpoint", "", "export scope spans to this OTLP/HTTP collector (host:port)")
	fs.Bool("otlp-insecure", true, "use plain HTTP for the OTLP exporter")

	gofs := flag.NewFlagSet("zap", flag.ContinueOnError)
	zopts.BindFlags(gofs)
	fs.AddGoFlagSet(gofs)

	_ = v.BindPFlags(fs)
	v.SetEnvPrefix("TIMED_CHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("output", "TIMED_CHECK_OUTPUT", timed.EnvVar)

	return cmd
}

func run(ctx context.Context, out io.Writer, v *viper.Viper, zopts *crzap.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := crzap.NewRaw(crzap.UseFlagOptions(zopts), crzap.WriteTo(out))
	defer func() { _ = logger.Sync() }()
	restore := zap.ReplaceGlobals(logger)
	defer restore()

	tp, err := InitTracer(ctx, TracingConfig{
		OTLPEndpoint: v.GetString("otlp-endpoint"),
		Insecure:     v.GetBool("otlp-insecure"),
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(sctx)
	}()

	reg := prometheus.NewRegistry()
	rep, runErr := Run(ctx, Config{
		Seed:       v.GetString("output"),
		CSVPath:    v.GetString("csv"),
		Iterations: v.GetInt("iterations"),
		Attributes: instrument.Attributes{
			Level: v.GetString("level"),
			Name:  v.GetString("name"),
		},
		Logger:     logger,
		Tracer:     tp.Tracer(serviceName),
		Registerer: reg,
		Report:     artifacts.JSONFileWriter{Path: v.GetString("report")},
	})

	for _, sc := range rep.Scenarios {
		_, _ = fmt.Fprintf(out, "%-16s %s\t%s\n", sc.Name, sc.Status, sc.Detail)
	}

	if v.GetBool("metrics") {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}
	return runErr
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
