package bench

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/vectorish/lib/infra"
)

func TestParseWorkloads(t *testing.T) {
	require.Equal(t, AllWorkloads, ParseWorkloads("all"))
	require.Equal(t, AllWorkloads, ParseWorkloads(""))
	require.Equal(t, AllWorkloads, ParseWorkloads("push_back, ALL"))
	require.Equal(t,
		[]Workload{WorkloadPushBack, WorkloadMixed},
		ParseWorkloads(" push_back,,Mixed,push_back "),
	)
	require.Equal(t, []Workload{"bogus"}, ParseWorkloads("bogus"))

	// The parsed slice must not alias the package level one.
	ws := ParseWorkloads("all")
	ws[0] = "changed"
	require.Equal(t, WorkloadPushBack, AllWorkloads[0])
}

func TestParseImpls(t *testing.T) {
	require.Equal(t, AllImpls, ParseImpls("all"))
	require.Equal(t, []Impl{ImplSlice, ImplSkipList}, ParseImpls("slice,skiplist"))
}

func TestParseSizes(t *testing.T) {
	sizes, err := ParseSizes("1000, 10_000,,1000")
	require.NoError(t, err)
	require.Equal(t, []int{1000, 10000}, sizes)

	sizes, err = ParseSizes("")
	require.NoError(t, err)
	require.Empty(t, sizes)

	_, err = ParseSizes("1k,2,x")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), `size "1k"`)
	require.Contains(t, err.Error(), `size "x"`)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	testcases := []struct {
		name     string
		mutate   func(cfg *Config)
		contains []string
	}{
		{
			name:     "no workload",
			mutate:   func(cfg *Config) { cfg.Workloads = nil },
			contains: []string{"no workload"},
		},
		{
			name:     "unknown workload and impl",
			mutate:   func(cfg *Config) { cfg.Workloads = []Workload{"sort"}; cfg.Impls = []Impl{"deque"} },
			contains: []string{`unknown workload "sort"`, `unknown implementation "deque"`},
		},
		{
			name:     "bad sizes",
			mutate:   func(cfg *Config) { cfg.Sizes = []int{0, -1, maxCaseSize + 1} },
			contains: []string{"size 0 not in", "size -1 not in", "not in [1, 67108864]"},
		},
		{
			name: "everything",
			mutate: func(cfg *Config) {
				*cfg = Config{}
			},
			contains: []string{"no workload", "no implementation", "no size", "non-positive ops 0", "non-positive workers 0"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(tt, err)
			require.ErrorIs(tt, err, ErrInvalidConfig)
			var es infra.ErrorStack
			require.ErrorAs(tt, err, &es)
			for _, s := range tc.contains {
				require.Contains(tt, err.Error(), s)
			}
		})
	}
}
