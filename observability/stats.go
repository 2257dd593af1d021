package observability

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/vectorish/lib/infra"
)

var (
	runtimeOnce sync.Once
	selfProc    *process.Process
	selfProcErr error
	selfOnce    sync.Once
)

// ProcessRSS returns the resident set size of the current process in bytes.
func ProcessRSS(ctx context.Context) (uint64, error) {
	selfOnce.Do(func() {
		selfProc, selfProcErr = process.NewProcessWithContext(ctx, int32(os.Getpid()))
	})
	if selfProcErr != nil {
		return 0, infra.WrapErrorStackWithMessage(selfProcErr, "lookup current process")
	}
	mem, err := selfProc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, infra.WrapErrorStackWithMessage(err, "read process memory info")
	}
	return mem.RSS, nil
}

func appMeterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("vectorish/app")
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats registers the application gauges on the global meter
// provider, so it has to run after the exporter is created.
// The Go runtime instrumentation starts once per process.
func InitAppStats(name string) {
	meter := otel.Meter(
		appMeterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.goroutines",
		metric.WithDescription(`The application goroutines' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	))
	lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.processes",
		metric.WithDescription(`The application GOMAXPROCS.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.GOMAXPROCS(0)))
			return nil
		}),
	))
	lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"app.process.rss",
		metric.WithDescription(`The resident set size of the process.`),
		metric.WithUnit("By"),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			rss, err := ProcessRSS(ctx)
			if err != nil {
				return err
			}
			ob.Observe(int64(rss))
			return nil
		}),
	))
	runtimeOnce.Do(func() {
		_ = otelruntime.Start()
	})
}
