package bench

import (
	"context"
	"strconv"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const BenchStatsName = "vectorish/bench"

// benchStats is bound to the global meter provider at creation, so it
// has to be created after the exporter.
type benchStats struct {
	caseDurations metric.Int64Histogram
	caseOps       metric.Int64Counter
	caseFailed    metric.Int64Counter
}

func newBenchStats() *benchStats {
	meter := otel.Meter(BenchStatsName)
	return &benchStats{
		caseDurations: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"bench.case.duration",
			metric.WithDescription("The duration of a bench case. In microseconds."),
			metric.WithUnit("us"),
		)),
		caseOps: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bench.case.ops",
			metric.WithDescription("The number of operations executed by the bench cases."),
		)),
		caseFailed: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bench.case.failed",
			metric.WithDescription("The number of failed bench cases."),
		)),
	}
}

func caseAttributes(c benchCase) attribute.Set {
	return attribute.NewSet(
		attribute.String("bench.workload", string(c.workload)),
		attribute.String("bench.impl", string(c.impl)),
		attribute.String("bench.size", strconv.Itoa(c.size)),
	)
}

func (stats *benchStats) RecordResult(ctx context.Context, res Result) {
	if stats == nil {
		return
	}
	as := metric.WithAttributeSet(caseAttributes(benchCase{res.Workload, res.Impl, res.Size}))
	stats.caseDurations.Record(ctx, res.Duration.Microseconds(), as)
	stats.caseOps.Add(ctx, int64(res.Ops), as)
}

func (stats *benchStats) IncreaseFailed(ctx context.Context, c benchCase) {
	if stats == nil {
		return
	}
	stats.caseFailed.Add(ctx, 1, metric.WithAttributeSet(caseAttributes(c)))
}
