package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/vectorish/lib/infra"
	"github.com/benz9527/vectorish/xlog"
)

type ExporterKind string

const (
	ExporterNone       ExporterKind = "none"
	ExporterConsole    ExporterKind = "console"
	ExporterPrometheus ExporterKind = "prometheus"
)

var ErrUnknownExporter = errors.New("[observability] unknown metrics exporter")

func ParseExporterKind(name string) (ExporterKind, error) {
	switch kind := ExporterKind(strings.ToLower(strings.TrimSpace(name))); kind {
	case ExporterNone, ExporterConsole, ExporterPrometheus:
		return kind, nil
	case "":
		return ExporterNone, nil
	}
	return ExporterNone, infra.WrapErrorStackWithMessage(ErrUnknownExporter, name)
}

type ExporterConfig struct {
	Kind ExporterKind
	// Console exporter.
	Interval time.Duration
	Timeout  time.Duration
	Writer   io.Writer
	// Prometheus exporter. An empty Addr disables the HTTP endpoint.
	Addr   string
	Logger xlog.XLogger
}

// Exporter owns the global meter provider. The zero Kind (none) keeps
// the otel no-op provider.
type Exporter struct {
	kind     ExporterKind
	provider *metric.MeterProvider
	registry *promclient.Registry
	addr     string
	server   *http.Server
	logger   xlog.XLogger
}

func NewExporter(cfg ExporterConfig) (*Exporter, error) {
	e := &Exporter{
		kind:   cfg.Kind,
		addr:   cfg.Addr,
		logger: cfg.Logger,
	}
	var err error
	switch cfg.Kind {
	case ExporterNone, "":
		e.kind = ExporterNone
		return e, nil
	case ExporterConsole:
		if cfg.Interval <= 0 {
			cfg.Interval = 10 * time.Second
		}
		if cfg.Timeout <= 0 {
			cfg.Timeout = 5 * time.Second
		}
		if cfg.Writer == nil {
			cfg.Writer = os.Stdout
		}
		e.provider, err = newConsoleMetricsExporter(
			cfg.Interval,
			cfg.Timeout,
			stdoutmetric.WithWriter(cfg.Writer),
			stdoutmetric.WithPrettyPrint(),
		)
	case ExporterPrometheus:
		e.registry = promclient.NewRegistry()
		e.provider, err = newPrometheusMetricsExporter(e.registry)
	default:
		return nil, infra.WrapErrorStackWithMessage(ErrUnknownExporter, string(cfg.Kind))
	}
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "create "+string(cfg.Kind)+" metrics exporter")
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

func (e *Exporter) Kind() ExporterKind {
	return e.kind
}

// Handler serves the Prometheus text format, nil for other exporters.
func (e *Exporter) Handler() http.Handler {
	if e.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		Registry:          e.registry,
		EnableOpenMetrics: true,
	})
}

// Start listens on the Prometheus endpoint address. The listener is
// bound before Start returns, so an occupied port is reported here.
func (e *Exporter) Start(ctx context.Context) error {
	if e.registry == nil || len(e.addr) == 0 {
		return nil
	}
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", e.addr)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "listen metrics endpoint "+e.addr)
	}
	e.addr = ln.Addr().String()
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	e.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := e.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && e.logger != nil {
			e.logger.ErrorStack(infra.WrapErrorStack(err), "metrics endpoint stopped")
		}
	}()
	if e.logger != nil {
		e.logger.Info("metrics endpoint started", zap.String("addr", "http://"+e.addr+"/metrics"))
	}
	return nil
}

// Addr returns the bound endpoint address once started.
func (e *Exporter) Addr() string {
	return e.addr
}

// Shutdown stops the endpoint and flushes the meter provider.
func (e *Exporter) Shutdown(ctx context.Context) error {
	var err error
	if e.server != nil {
		err = multierr.Append(err, e.server.Shutdown(ctx))
	}
	if e.provider != nil {
		err = multierr.Append(err, e.provider.Shutdown(ctx))
	}
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "shutdown metrics exporter")
	}
	return nil
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	return mp, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter(registry promclient.Registerer) (*metric.MeterProvider, error) {
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}
