/*
Copyright 2026 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Gosayram/profscope/pkg/constants"
)

const (
	highCallCountScan = 5
	hotPathScan       = 5
	recursionScan     = 10
)

// Thresholds control which functions are flagged in a report.
type Thresholds struct {
	BottleneckPercent float64 `yaml:"bottleneck_percent"`
	HotPathPercent    float64 `yaml:"hot_path_percent"`
	HighCallCount     int64   `yaml:"high_call_count"`
}

// DefaultThresholds returns the thresholds used when none are configured
func DefaultThresholds() Thresholds {
	return Thresholds{
		BottleneckPercent: constants.DefaultBottleneckPercent,
		HotPathPercent:    constants.DefaultHotPathPercent,
		HighCallCount:     constants.DefaultHighCallCount,
	}
}

// Builder assembles ProfileReports from raw rows.
type Builder struct {
	Thresholds Thresholds
	// Limit is the number of ranked functions kept; zero or less keeps all.
	Limit     int
	TreeDepth int
	TreeWidth int

	now func() time.Time
}

// NewBuilder creates a Builder with default thresholds and limits
func NewBuilder() *Builder {
	return &Builder{
		Thresholds: DefaultThresholds(),
		Limit:      constants.DefaultHotFunctionLimit,
		TreeDepth:  constants.DefaultTreeDepth,
		TreeWidth:  constants.DefaultTreeWidth,
		now:        time.Now,
	}
}

// Build ranks rows by cumulative time and derives percentages, bottlenecks,
// recommendations and the pruned call tree. totalTime is the run's wall time
// in seconds; a non-positive total yields 0% for every function.
func (b *Builder) Build(scriptPath string, totalTime float64, rows []Row, tree CallTree) *ProfileReport {
	now := time.Now
	if b.now != nil {
		now = b.now
	}

	hot := Rank(rows, totalTime, b.Limit)

	tree.Roots = Prune(tree.Roots, b.TreeDepth, b.TreeWidth)

	return &ProfileReport{
		ScriptPath:      scriptPath,
		TotalTime:       totalTime,
		TotalCalls:      tree.TotalCalls,
		HotFunctions:    hot,
		Bottlenecks:     Bottlenecks(hot, b.Thresholds.BottleneckPercent),
		CallTree:        tree,
		Recommendations: Recommendations(hot, b.Thresholds),
		Timestamp:       now().Format(constants.TimestampLayout),
	}
}

// Rank converts rows to FunctionStats ordered by cumulative time descending.
// Ties are broken by name, then filename and line, so the order is stable
// across runs.
func Rank(rows []Row, totalTime float64, limit int) []FunctionStats {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, c := sorted[i], sorted[j]
		if a.CumulativeTime != c.CumulativeTime {
			return a.CumulativeTime > c.CumulativeTime
		}
		if a.Name != c.Name {
			return a.Name < c.Name
		}
		if a.Filename != c.Filename {
			return a.Filename < c.Filename
		}
		return a.Line < c.Line
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	stats := make([]FunctionStats, 0, len(sorted))
	for _, r := range sorted {
		stats = append(stats, FunctionStats{
			Name:              r.Name,
			Filename:          r.Filename,
			LineNumber:        r.Line,
			TotalCalls:        r.TotalCalls,
			PrimitiveCalls:    r.PrimitiveCalls,
			TotalTime:         r.SelfTime,
			CumulativeTime:    r.CumulativeTime,
			TimePerCall:       perCall(r.SelfTime, r.TotalCalls),
			CumulativePerCall: perCall(r.CumulativeTime, r.PrimitiveCalls),
			Percentage:        Percentage(r.CumulativeTime, totalTime),
		})
	}
	return stats
}

// Percentage returns part as a percentage of total, or 0 when total is not positive.
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

func perCall(t float64, calls int64) float64 {
	if calls <= 0 {
		return 0
	}
	return t / float64(calls)
}

// Bottlenecks lists the functions whose percentage exceeds threshold.
func Bottlenecks(funcs []FunctionStats, threshold float64) []string {
	bottlenecks := []string{}
	for _, f := range funcs {
		if f.Percentage > threshold {
			bottlenecks = append(bottlenecks, FormatBottleneck(f))
		}
	}
	return bottlenecks
}

// FormatBottleneck renders a bottleneck entry as "name (12.3% of total time)"
func FormatBottleneck(f FunctionStats) string {
	return fmt.Sprintf("%s (%.1f%% of total time)", f.Name, f.Percentage)
}

// BottleneckName extracts the function name from a bottleneck entry.
// Entries not in the "name (...)" form are returned unchanged.
func BottleneckName(entry string) string {
	if !strings.HasSuffix(entry, ")") {
		return entry
	}
	if i := strings.LastIndex(entry, " ("); i > 0 {
		return entry[:i]
	}
	return entry
}

// Recommendations generates optimization notes for the ranked functions.
func Recommendations(funcs []FunctionStats, t Thresholds) []string {
	if len(funcs) == 0 {
		return []string{"No significant performance issues detected."}
	}

	var recs []string
	for _, f := range head(funcs, highCallCountScan) {
		if f.TotalCalls > t.HighCallCount {
			recs = append(recs, fmt.Sprintf("Consider optimizing %s: called %s times",
				f.Name, humanize.Comma(f.TotalCalls)))
		}
	}
	for _, f := range head(funcs, hotPathScan) {
		if f.Percentage > t.HotPathPercent {
			recs = append(recs, fmt.Sprintf("Hot path detected in %s: %.3fs (%.1f%%)",
				f.Name, f.CumulativeTime, f.Percentage))
		}
	}
	for _, f := range head(funcs, recursionScan) {
		if f.Recursive() {
			recs = append(recs, fmt.Sprintf("Recursive function %s: %d calls (%d primitive)",
				f.Name, f.TotalCalls, f.PrimitiveCalls))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Performance looks good! No major bottlenecks detected.")
	}
	return recs
}

func head(funcs []FunctionStats, n int) []FunctionStats {
	if len(funcs) > n {
		return funcs[:n]
	}
	return funcs
}
