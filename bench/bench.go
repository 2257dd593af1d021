package bench

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/benz9527/vectorish/lib/infra"
	"github.com/benz9527/vectorish/observability"
	"github.com/benz9527/vectorish/xlog"
)

// CaseContextKey carries the running case name, see
// xlog.WithXLoggerContextFieldExtract.
const CaseContextKey = xlog.ContextKey("bench.case")

type Result struct {
	Workload  Workload
	Impl      Impl
	Size      int
	Ops       int
	Duration  time.Duration
	NsPerOp   float64
	HeapAlloc uint64 // heap bytes in use right after the case
	RSS       uint64 // process resident set size right after the case
	Checksum  int64
}

type benchCase struct {
	workload Workload
	impl     Impl
	size     int
}

func (c benchCase) String() string {
	return fmt.Sprintf("%s/%s/%d", c.workload, c.impl, c.size)
}

// cases enumerates workload x size x impl in a stable order.
func (cfg Config) cases() []benchCase {
	res := make([]benchCase, 0, len(cfg.Workloads)*len(cfg.Sizes)*len(cfg.Impls))
	for _, w := range cfg.Workloads {
		for _, size := range cfg.Sizes {
			for _, impl := range cfg.Impls {
				res = append(res, benchCase{workload: w, impl: impl, size: size})
			}
		}
	}
	return res
}

type Runner struct {
	logger xlog.XLogger
	stats  *benchStats
}

// NewRunner binds the bench instruments to the current global meter
// provider. A nil logger discards the logs.
func NewRunner(logger xlog.XLogger) *Runner {
	if logger == nil {
		logger = xlog.NewNopXLogger()
	}
	return &Runner{
		logger: logger,
		stats:  newBenchStats(),
	}
}

// Run runs the cases of cfg without logging.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	return NewRunner(nil).Run(ctx, cfg)
}

// Run executes every case of cfg on a worker pool, each case with its
// own container. The results keep the case order. A cancelled ctx stops
// scheduling, the finished results are returned along with the error.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(cfg.Workers,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(r.logger)),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "create bench worker pool")
	}
	defer pool.Release()

	var (
		cases   = cfg.cases()
		results = make([]Result, len(cases))
		done    = make([]bool, len(cases))
		wg      sync.WaitGroup
		lock    sync.Mutex
		errs    error
	)
	appendErr := func(err error) {
		lock.Lock()
		defer lock.Unlock()
		errs = infra.AppendErrorStack(errs, err)
	}
	for i, c := range cases {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			caseCtx := context.WithValue(ctx, CaseContextKey, c.String())
			defer func() {
				if p := recover(); p != nil {
					r.stats.IncreaseFailed(caseCtx, c)
					appendErr(fmt.Errorf("bench case %s panic: %v", c, p))
				}
			}()
			if caseCtx.Err() != nil {
				return
			}
			res, err := r.runCase(caseCtx, c, cfg)
			if err != nil {
				r.stats.IncreaseFailed(caseCtx, c)
				r.logger.ErrorContext(caseCtx, err, "bench case failed")
				appendErr(fmt.Errorf("bench case %s: %w", c, err))
				return
			}
			r.stats.RecordResult(caseCtx, res)
			lock.Lock()
			results[i], done[i] = res, true
			lock.Unlock()
		})
		if err != nil {
			wg.Done()
			appendErr(fmt.Errorf("submit bench case %s: %w", c, err))
		}
	}
	wg.Wait()

	finished := make([]Result, 0, len(results))
	for i := range results {
		if done[i] {
			finished = append(finished, results[i])
		}
	}
	if ctx.Err() != nil {
		errs = infra.AppendErrorStack(errs, ctx.Err())
	}
	r.logger.Info("bench finished",
		zap.Int("cases", len(cases)),
		zap.Int("finished", len(finished)),
	)
	return finished, errs
}

func (r *Runner) runCase(ctx context.Context, c benchCase, cfg Config) (Result, error) {
	cont, err := newContainer(c.impl, c.size, cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	rnd := workloadRand(cfg.Seed, c.workload, c.size)

	start := time.Now()
	checksum, err := runWorkload(cont, c.workload, cfg.Ops, rnd)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}

	memStats := runtime.MemStats{}
	runtime.ReadMemStats(&memStats)
	rss, err := observability.ProcessRSS(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "read process rss failed", zap.Error(err))
	}
	res := Result{
		Workload:  c.workload,
		Impl:      c.impl,
		Size:      c.size,
		Ops:       cfg.Ops,
		Duration:  elapsed,
		NsPerOp:   float64(elapsed.Nanoseconds()) / float64(cfg.Ops),
		HeapAlloc: memStats.HeapAlloc,
		RSS:       rss,
		Checksum:  checksum,
	}
	r.logger.DebugContext(ctx, "bench case done",
		zap.Duration("duration", res.Duration),
		zap.Float64("nsPerOp", res.NsPerOp),
		zap.Int64("checksum", res.Checksum),
	)
	return res, nil
}
