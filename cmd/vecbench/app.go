package main

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/vectorish/bench"
	"github.com/benz9527/vectorish/observability"
	"github.com/benz9527/vectorish/xlog"
)

const appName = "vecbench"

type vecbenchBanner struct{}

func (vecbenchBanner) JSON() string {
	return `{"app":"` + appName + `","desc":"indexed skip list vs slice"}`
}

func (vecbenchBanner) PlainText() string {
	return appName + " - indexed skip list vs slice"
}

func appOptions(opts cliOptions, out io.Writer) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		fx.Provide(
			func() io.Writer { return out },
			newLogger,
			newExporter,
			newBenchRunner,
			newBenchJob,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
	)
}

func newLogger(opts cliOptions) (xlog.XLogger, error) {
	enc, err := xlog.ParseLogEncoder(opts.logEncoder)
	if err != nil {
		return nil, err
	}
	lvl, err := xlog.ParseLogLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerStdOutWriter(),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerContextFieldExtract(string(bench.CaseContextKey), "case"),
	), nil
}

func newExporter(lc fx.Lifecycle, opts cliOptions, logger xlog.XLogger) (*observability.Exporter, error) {
	kind, err := observability.ParseExporterKind(opts.metrics)
	if err != nil {
		return nil, err
	}
	exporter, err := observability.NewExporter(observability.ExporterConfig{
		Kind:   kind,
		Addr:   opts.metricsAddr,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	observability.InitAppStats(appName)
	lc.Append(fx.Hook{
		OnStart: exporter.Start,
		OnStop:  exporter.Shutdown,
	})
	return exporter, nil
}

// newBenchRunner depends on the exporter, so the bench instruments bind
// to its meter provider.
func newBenchRunner(logger xlog.XLogger, _ *observability.Exporter) *bench.Runner {
	return bench.NewRunner(logger)
}

type benchJob struct {
	cfg    bench.Config
	runner *bench.Runner
	logger xlog.XLogger
	out    io.Writer
}

func newBenchJob(opts cliOptions, runner *bench.Runner, logger xlog.XLogger, out io.Writer) (*benchJob, error) {
	cfg, err := opts.benchConfig()
	if err != nil {
		return nil, err
	}
	return &benchJob{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		out:    out,
	}, nil
}

// Run prints the results of the finished cases even if some failed.
func (job *benchJob) Run(ctx context.Context) error {
	job.logger.Banner(vecbenchBanner{})
	job.logger.Info("bench started",
		zap.Strings("workloads", lo.Map(job.cfg.Workloads, func(w bench.Workload, _ int) string { return string(w) })),
		zap.Strings("impls", lo.Map(job.cfg.Impls, func(impl bench.Impl, _ int) string { return string(impl) })),
		zap.Ints("sizes", job.cfg.Sizes),
		zap.Int("ops", job.cfg.Ops),
		zap.Uint64("seed", job.cfg.Seed),
		zap.Int("workers", job.cfg.Workers),
		zap.Object("host", observability.DetectHostEnv()),
	)
	results, err := job.runner.Run(ctx, job.cfg)
	renderResults(job.out, results)
	if err != nil {
		return err
	}
	return bench.CheckChecksums(results)
}

func renderResults(out io.Writer, results []bench.Result) {
	if len(results) == 0 {
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader(bench.ReportHeader)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(bench.ReportRows(results))
	table.Render()
}
