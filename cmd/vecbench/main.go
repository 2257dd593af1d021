package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/benz9527/vectorish/bench"
)

type cliOptions struct {
	workloads   string
	sizes       string
	impls       string
	ops         int
	seed        uint64
	workers     int
	metrics     string
	metricsAddr string
	logLevel    string
	logEncoder  string
}

func parseFlags(args []string, output io.Writer) (cliOptions, error) {
	opts := cliOptions{}
	fs := flag.NewFlagSet("vecbench", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.workloads, "workloads", "all", "workloads to run: all or comma list (push_back,push_front,insert_random,remove_random,get_random,pop_front,mixed)")
	fs.StringVar(&opts.sizes, "sizes", "1000,10000,100000", "comma list of initial container sizes")
	fs.StringVar(&opts.impls, "impl", "all", "implementations to run: all or comma list (skiplist,skiplist_sync,slice)")
	fs.IntVar(&opts.ops, "ops", 10_000, "operations per case")
	fs.Uint64Var(&opts.seed, "seed", 1, "seed of the operation streams and the skip list levels")
	fs.IntVar(&opts.workers, "workers", runtime.GOMAXPROCS(0), "number of cases running concurrently")
	fs.StringVar(&opts.metrics, "metrics", "none", "metrics exporter: none, console or prometheus")
	fs.StringVar(&opts.metricsAddr, "metrics.addr", ":9464", "prometheus endpoint address")
	fs.StringVar(&opts.logLevel, "log.level", "INFO", "log level: DEBUG, INFO, WARN or ERROR")
	fs.StringVar(&opts.logEncoder, "log.encoder", "plain", "log encoder: plain or json")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func (opts cliOptions) benchConfig() (bench.Config, error) {
	sizes, err := bench.ParseSizes(opts.sizes)
	if err != nil {
		return bench.Config{}, err
	}
	cfg := bench.Config{
		Workloads: bench.ParseWorkloads(opts.workloads),
		Sizes:     sizes,
		Ops:       opts.ops,
		Seed:      opts.seed,
		Impls:     bench.ParseImpls(opts.impls),
		Workers:   opts.workers,
	}
	if err = cfg.Validate(); err != nil {
		return bench.Config{}, err
	}
	return cfg, nil
}

// run builds the application, runs the bench once and stops.
// Cancelling ctx only interrupts the bench, the lifecycle hooks still run.
func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	var job *benchJob
	app := fx.New(
		appOptions(opts, out),
		fx.Populate(&job),
	)
	if err = app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		return err
	}
	runErr := job.Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return multierr.Append(runErr, app.Stop(stopCtx))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "vecbench: %+v\n", err)
		os.Exit(1)
	}
}
