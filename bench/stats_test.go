package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestBenchStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	var nilStats *benchStats
	require.NotPanics(t, func() {
		nilStats.RecordResult(context.Background(), Result{})
		nilStats.IncreaseFailed(context.Background(), benchCase{})
	})

	stats := newBenchStats()
	stats.RecordResult(context.Background(), Result{
		Workload: WorkloadMixed,
		Impl:     ImplSkipList,
		Size:     100,
		Ops:      1000,
		Duration: 3 * time.Millisecond,
	})
	stats.IncreaseFailed(context.Background(), benchCase{WorkloadMixed, ImplSlice, 100})

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Equal(t, BenchStatsName, rm.ScopeMetrics[0].Scope.Name)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}
	require.Contains(t, byName, "bench.case.duration")
	hist, ok := byName["bench.case.duration"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	require.Equal(t, int64(3000), hist.DataPoints[0].Sum)
	impl, ok := hist.DataPoints[0].Attributes.Value("bench.impl")
	require.True(t, ok)
	require.Equal(t, "skiplist", impl.AsString())

	ops, ok := byName["bench.case.ops"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Equal(t, int64(1000), ops.DataPoints[0].Value)

	failed, ok := byName["bench.case.failed"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Equal(t, int64(1), failed.DataPoints[0].Value)
}
