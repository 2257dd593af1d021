package bench

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/vectorish/lib/infra"
)

type Workload string

const (
	WorkloadPushBack     Workload = "push_back"
	WorkloadPushFront    Workload = "push_front"
	WorkloadInsertRandom Workload = "insert_random"
	WorkloadRemoveRandom Workload = "remove_random"
	WorkloadGetRandom    Workload = "get_random"
	WorkloadPopFront     Workload = "pop_front"
	WorkloadMixed        Workload = "mixed"
)

var AllWorkloads = []Workload{
	WorkloadPushBack,
	WorkloadPushFront,
	WorkloadInsertRandom,
	WorkloadRemoveRandom,
	WorkloadGetRandom,
	WorkloadPopFront,
	WorkloadMixed,
}

type Impl string

const (
	ImplSkipList     Impl = "skiplist"
	ImplSyncSkipList Impl = "skiplist_sync"
	ImplSlice        Impl = "slice"
)

var AllImpls = []Impl{ImplSkipList, ImplSyncSkipList, ImplSlice}

var ErrInvalidConfig = errors.New("[bench] invalid config")

const maxCaseSize = 1 << 26

type Config struct {
	Workloads []Workload
	Sizes     []int
	Ops       int
	Seed      uint64
	Impls     []Impl
	Workers   int
}

func DefaultConfig() Config {
	return Config{
		Workloads: AllWorkloads,
		Sizes:     []int{1_000, 10_000, 100_000},
		Ops:       10_000,
		Seed:      1,
		Impls:     AllImpls,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// splitList splits a comma separated flag value, dropping blanks and
// duplicates. "all" (or an empty value) selects every name of all.
func splitList[T ~string](value string, all []T) []T {
	names := lo.Uniq(lo.FilterMap(strings.Split(value, ","), func(item string, _ int) (T, bool) {
		item = strings.ToLower(strings.TrimSpace(item))
		return T(item), len(item) > 0
	}))
	if len(names) == 0 || lo.Contains(names, T("all")) {
		return append([]T(nil), all...)
	}
	return names
}

// ParseWorkloads does not validate the names, Config.Validate does.
func ParseWorkloads(value string) []Workload {
	return splitList(value, AllWorkloads)
}

func ParseImpls(value string) []Impl {
	return splitList(value, AllImpls)
}

func ParseSizes(value string) ([]int, error) {
	var merr error
	sizes := make([]int, 0, 4)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(strings.ReplaceAll(item, "_", ""))
		if len(item) == 0 {
			continue
		}
		size, err := strconv.Atoi(item)
		if err != nil {
			merr = multierr.Append(merr, fmt.Errorf("size %q: %w", item, err))
			continue
		}
		sizes = append(sizes, size)
	}
	if merr != nil {
		return nil, infra.WrapErrorStackWithMessage(multierr.Append(ErrInvalidConfig, merr), "parse sizes")
	}
	return lo.Uniq(sizes), nil
}

// Validate reports every problem of the config at once.
func (cfg Config) Validate() error {
	var merr error
	if len(cfg.Workloads) == 0 {
		merr = multierr.Append(merr, errors.New("no workload"))
	}
	for _, w := range cfg.Workloads {
		if !lo.Contains(AllWorkloads, w) {
			merr = multierr.Append(merr, fmt.Errorf("unknown workload %q", w))
		}
	}
	if len(cfg.Impls) == 0 {
		merr = multierr.Append(merr, errors.New("no implementation"))
	}
	for _, impl := range cfg.Impls {
		if !lo.Contains(AllImpls, impl) {
			merr = multierr.Append(merr, fmt.Errorf("unknown implementation %q", impl))
		}
	}
	if len(cfg.Sizes) == 0 {
		merr = multierr.Append(merr, errors.New("no size"))
	}
	for _, size := range cfg.Sizes {
		if size <= 0 || size > maxCaseSize {
			merr = multierr.Append(merr, fmt.Errorf("size %d not in [1, %d]", size, maxCaseSize))
		}
	}
	if cfg.Ops <= 0 {
		merr = multierr.Append(merr, fmt.Errorf("non-positive ops %d", cfg.Ops))
	}
	if cfg.Workers <= 0 {
		merr = multierr.Append(merr, fmt.Errorf("non-positive workers %d", cfg.Workers))
	}
	if merr != nil {
		return infra.WrapErrorStackWithMessage(multierr.Append(ErrInvalidConfig, merr), "validate bench config")
	}
	return nil
}
