package bench

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/vectorish/lib/infra"
)

var ReportHeader = []string{"workload", "impl", "size", "ops", "duration", "ns/op", "heap", "rss", "checksum"}

// ReportRows formats the results for a table, one row per result.
func ReportRows(results []Result) [][]string {
	return lo.Map(results, func(res Result, _ int) []string {
		return []string{
			string(res.Workload),
			string(res.Impl),
			strconv.Itoa(res.Size),
			strconv.Itoa(res.Ops),
			res.Duration.String(),
			strconv.FormatFloat(res.NsPerOp, 'f', 1, 64),
			humanBytes(res.HeapAlloc),
			humanBytes(res.RSS),
			strconv.FormatInt(res.Checksum, 10),
		}
	})
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatUint(n, 10) + "B"
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// CheckChecksums reports the (workload, size) pairs whose
// implementations disagree. They replay the same operations, so any
// difference is a container bug.
func CheckChecksums(results []Result) error {
	type key struct {
		workload Workload
		size     int
	}
	var merr error
	groups := lo.GroupBy(results, func(res Result) key {
		return key{res.Workload, res.Size}
	})
	for _, k := range lo.Keys(groups) {
		group := groups[k]
		if len(lo.UniqBy(group, func(res Result) int64 { return res.Checksum })) <= 1 {
			continue
		}
		merr = multierr.Append(merr, fmt.Errorf("%s/%d checksums differ: %v", k.workload, k.size,
			lo.Map(group, func(res Result, _ int) string {
				return fmt.Sprintf("%s=%d", res.Impl, res.Checksum)
			}),
		))
	}
	if merr != nil {
		return infra.WrapErrorStackWithMessage(merr, "bench checksum mismatch")
	}
	return nil
}
