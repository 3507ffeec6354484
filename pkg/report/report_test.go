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
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gosayram/profscope/testutil"
)

var fixedNow = func() time.Time { return time.Date(2026, 2, 16, 10, 30, 0, 0, time.UTC) }

func testBuilder() *Builder {
	b := NewBuilder()
	b.now = fixedNow
	return b
}

func sampleRows() []Row {
	return []Row{
		{Name: "main.main", Filename: "main.go", Line: 10, TotalCalls: 100, PrimitiveCalls: 100, SelfTime: 0.1, CumulativeTime: 4.0},
		{Name: "main.parse", Filename: "parse.go", Line: 20, TotalCalls: 60, PrimitiveCalls: 60, SelfTime: 1.5, CumulativeTime: 2.5},
		{Name: "main.render", Filename: "render.go", Line: 5, TotalCalls: 40, PrimitiveCalls: 40, SelfTime: 1.0, CumulativeTime: 1.2},
		{Name: "main.fib", Filename: "fib.go", Line: 3, TotalCalls: 30, PrimitiveCalls: 12, SelfTime: 0.3, CumulativeTime: 0.3},
		{Name: "strings.Index", Filename: "strings.go", Line: 90, TotalCalls: 20, PrimitiveCalls: 20, SelfTime: 0.2, CumulativeTime: 0.2},
	}
}

func TestRank_OrderAndTieBreak(t *testing.T) {
	rows := []Row{
		{Name: "b", CumulativeTime: 1.0},
		{Name: "c", CumulativeTime: 2.0},
		{Name: "a", CumulativeTime: 1.0},
		{Name: "a", Filename: "z.go", CumulativeTime: 1.0},
	}
	got := Rank(rows, 4.0, 0)
	names := make([]string, 0, len(got))
	for _, f := range got {
		names = append(names, f.Name+"@"+f.Filename)
	}
	testutil.CheckDeepEqual(t, []string{"c@", "a@", "a@z.go", "b@"}, names)
	assert.InDelta(t, 50.0, got[0].Percentage, 1e-9)
	assert.InDelta(t, 25.0, got[1].Percentage, 1e-9)
}

func TestRank_Limit(t *testing.T) {
	got := Rank(sampleRows(), 4.0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "main.main", got[0].Name)
	assert.Equal(t, "main.parse", got[1].Name)
}

func TestRank_PerCallTimes(t *testing.T) {
	got := Rank([]Row{
		{Name: "f", TotalCalls: 4, PrimitiveCalls: 2, SelfTime: 2.0, CumulativeTime: 3.0},
		{Name: "g"},
	}, 10, 0)
	assert.InDelta(t, 0.5, got[0].TimePerCall, 1e-9)
	assert.InDelta(t, 1.5, got[0].CumulativePerCall, 1e-9)
	assert.Zero(t, got[1].TimePerCall)
	assert.Zero(t, got[1].CumulativePerCall)
}

func TestBuild_ZeroTotalTime(t *testing.T) {
	r := testBuilder().Build("script.go", 0, sampleRows(), CallTree{TotalCalls: 250})
	for _, f := range r.HotFunctions {
		if f.Percentage != 0 {
			t.Errorf("expected 0%% for %s with zero total time, got %v", f.Name, f.Percentage)
		}
	}
	assert.Empty(t, r.Bottlenecks)
	assert.NotContains(t, r.Recommendations, "No significant performance issues detected.")
}

func TestBuild_Report(t *testing.T) {
	tree := CallTree{TotalCalls: 250, PrimitiveCalls: 232, TotalFunctions: 5}
	r := testBuilder().Build("cmd/app/main.go", 4.0, sampleRows(), tree)

	assert.Equal(t, "cmd/app/main.go", r.ScriptPath)
	assert.Equal(t, int64(250), r.TotalCalls)
	assert.Equal(t, "2026-02-16 10:30:00", r.Timestamp)
	require.Len(t, r.HotFunctions, 5)
	assert.Equal(t, "main.main", r.HotFunctions[0].Name)

	testutil.CheckDeepEqual(t, []string{
		"main.main (100.0% of total time)",
		"main.parse (62.5% of total time)",
		"main.render (30.0% of total time)",
	}, r.Bottlenecks)

	testutil.CheckDeepEqual(t, []string{
		"Hot path detected in main.main: 4.000s (100.0%)",
		"Hot path detected in main.parse: 2.500s (62.5%)",
		"Hot path detected in main.render: 1.200s (30.0%)",
		"Recursive function main.fib: 30 calls (12 primitive)",
	}, r.Recommendations)
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name  string
		funcs []FunctionStats
		want  []string
	}{
		{
			name: "no functions",
			want: []string{"No significant performance issues detected."},
		},
		{
			name:  "nothing flagged",
			funcs: []FunctionStats{{Name: "f", TotalCalls: 3, PrimitiveCalls: 3, Percentage: 5}},
			want:  []string{"Performance looks good! No major bottlenecks detected."},
		},
		{
			name:  "high call count",
			funcs: []FunctionStats{{Name: "f", TotalCalls: 12345, PrimitiveCalls: 12345, Percentage: 5}},
			want:  []string{"Consider optimizing f: called 12,345 times"},
		},
		{
			name: "high call count only in top five",
			funcs: []FunctionStats{
				{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
				{Name: "f", TotalCalls: 50000, PrimitiveCalls: 50000},
			},
			want: []string{"Performance looks good! No major bottlenecks detected."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CheckDeepEqual(t, tt.want, Recommendations(tt.funcs, DefaultThresholds()))
		})
	}
}

func TestBottlenecks_ThresholdMonotonic(t *testing.T) {
	funcs := Rank(sampleRows(), 4.0, 0)
	prev := len(funcs) + 1
	for threshold := 0.0; threshold <= 110; threshold += 2.5 {
		n := len(Bottlenecks(funcs, threshold))
		if n > prev {
			t.Fatalf("raising threshold to %v increased bottlenecks from %d to %d", threshold, prev, n)
		}
		prev = n
	}
}

func TestRank_SiblingPercentagesWithinTotal(t *testing.T) {
	// main.parse and main.render are both called directly from main.main.
	funcs := Rank(sampleRows(), 4.0, 0)
	var sum float64
	for _, f := range funcs {
		if f.Name == "main.parse" || f.Name == "main.render" {
			sum += f.Percentage
		}
	}
	if sum > 100+1e-6 {
		t.Errorf("sibling percentages sum to %v, want <= 100", sum)
	}
}

func TestBottleneckName(t *testing.T) {
	tests := map[string]string{
		"main.parse (62.5% of total time)":    "main.parse",
		"main.(*T).Run (12.0% of total time)": "main.(*T).Run",
		"plain":                               "plain",
		"main.(*T).Run":                       "main.(*T).Run",
		"pkg.f.func1 (10.1% of total time)":   "pkg.f.func1",
	}
	for entry, want := range tests {
		assert.Equal(t, want, BottleneckName(entry), entry)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	tree := CallTree{
		TotalCalls: 250, PrimitiveCalls: 232, TotalFunctions: 5,
		Roots: []*CallNode{{Name: "main.main", CumulativeTime: 4.0,
			Children: []*CallNode{{Name: "main.parse", CumulativeTime: 2.5}}}},
	}
	want := testBuilder().Build("main.go", 4.0, sampleRows(), tree)

	require.NoError(t, Save(fsys, "out/main_20260216_103000.json", want))
	got, err := Load(fsys, "out/main_20260216_103000.json")
	require.NoError(t, err)

	assert.Equal(t, want.TotalTime, got.TotalTime)
	assert.Equal(t, want.TotalCalls, got.TotalCalls)
	testutil.CheckDeepEqual(t, want, got)
}

func TestLoad_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := Load(fsys, "missing.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}

	require.NoError(t, afero.WriteFile(fsys, "bad.json", []byte("{not json"), 0o600))
	_, err = Load(fsys, "bad.json")
	testutil.CheckError(t, true, err)
}

func TestMarshal_EmptyListsAreArrays(t *testing.T) {
	r := testBuilder().Build("x.go", 1.0, nil, CallTree{})
	data, err := Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bottlenecks": []`)
	assert.Contains(t, string(data), `"hot_functions": []`)
}

func TestPrune(t *testing.T) {
	leaf := func(name string, cum float64) *CallNode { return &CallNode{Name: name, CumulativeTime: cum} }
	roots := []*CallNode{{
		Name: "main", CumulativeTime: 10,
		Children: []*CallNode{
			leaf("c", 1), leaf("a", 5),
			{Name: "b", CumulativeTime: 3, Children: []*CallNode{leaf("deep", 3)}},
		},
	}}

	got := Prune(roots, 2, 2)
	want := []*CallNode{{
		Name: "main", CumulativeTime: 10,
		Children: []*CallNode{leaf("a", 5), leaf("b", 3)},
	}}
	testutil.CheckDeepEqual(t, want, got)

	// The input is left untouched.
	assert.Len(t, roots[0].Children, 3)

	var visited []string
	Walk(Prune(roots, 0, 0), func(n *CallNode, depth int) {
		if depth == 2 {
			visited = append(visited, n.Name)
		}
	})
	testutil.CheckDeepEqual(t, []string{"deep"}, visited)
}

func TestScriptStem(t *testing.T) {
	tests := map[string]string{
		"script.go":        "script",
		"./cmd/server":     "server",
		"/usr/bin/app":     "app",
		".":                "profile",
		"bench/run.tar.gz": "run.tar",
	}
	for in, want := range tests {
		assert.Equal(t, want, ScriptStem(in), in)
	}
}
