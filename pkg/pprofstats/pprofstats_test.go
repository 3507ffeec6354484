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

package pprofstats

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gosayram/profscope/pkg/report"
	"github.com/Gosayram/profscope/testutil"
)

const ms = int64(1e6)

// testProfile builds a CPU profile shaped like the ones runtime/pprof writes:
//
//	main.main -> main.work            (2 samples, 20ms)
//	main.main -> main.fib -> main.fib (1 sample, 10ms)
//	main.main                         (1 sample, 10ms)
func testProfile() *profile.Profile {
	fnMain := &profile.Function{ID: 1, Name: "main.main", Filename: "/src/app/main.go", StartLine: 10}
	fnWork := &profile.Function{ID: 2, Name: "main.work", Filename: "/src/app/work.go", StartLine: 20}
	fnFib := &profile.Function{ID: 3, Name: "main.fib", Filename: "/src/app/fib.go", StartLine: 3}

	locMain := &profile.Location{ID: 1, Address: 0x1000, Line: []profile.Line{{Function: fnMain, Line: 12}}}
	locWork := &profile.Location{ID: 2, Address: 0x2000, Line: []profile.Line{{Function: fnWork, Line: 22}}}
	locFib := &profile.Location{ID: 3, Address: 0x3000, Line: []profile.Line{{Function: fnFib, Line: 5}}}

	return &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "nanoseconds"},
		},
		PeriodType:    &profile.ValueType{Type: "cpu", Unit: "nanoseconds"},
		Period:        10 * ms,
		DurationNanos: 50 * ms,
		Sample: []*profile.Sample{
			{Location: []*profile.Location{locWork, locMain}, Value: []int64{2, 20 * ms}},
			{Location: []*profile.Location{locFib, locFib, locMain}, Value: []int64{1, 10 * ms}},
			{Location: []*profile.Location{locMain}, Value: []int64{1, 10 * ms}},
			{Location: nil, Value: []int64{1, 10 * ms}},
		},
		Location: []*profile.Location{locMain, locWork, locFib},
		Function: []*profile.Function{fnMain, fnWork, fnFib},
	}
}

func rowByName(t *testing.T, rows []report.Row, name string) report.Row {
	t.Helper()
	for _, r := range rows {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no row for %s", name)
	return report.Row{}
}

func TestExtract_Rows(t *testing.T) {
	stats, err := Extract(testProfile())
	require.NoError(t, err)
	require.Len(t, stats.Rows, 3)

	testutil.CheckDeepEqual(t, report.Row{
		Name: "main.main", Filename: "main.go", Line: 10,
		TotalCalls: 4, PrimitiveCalls: 4, SelfTime: 0.01, CumulativeTime: 0.04,
	}, rowByName(t, stats.Rows, "main.main"))
	testutil.CheckDeepEqual(t, report.Row{
		Name: "main.work", Filename: "work.go", Line: 20,
		TotalCalls: 2, PrimitiveCalls: 2, SelfTime: 0.02, CumulativeTime: 0.02,
	}, rowByName(t, stats.Rows, "main.work"))

	fib := rowByName(t, stats.Rows, "main.fib")
	assert.Equal(t, int64(2), fib.TotalCalls)
	assert.Equal(t, int64(1), fib.PrimitiveCalls)
	assert.InDelta(t, 0.01, fib.CumulativeTime, 1e-12)

	assert.InDelta(t, 0.04, stats.SampledTime, 1e-12)
	assert.InDelta(t, 0.05, stats.Duration, 1e-12)
}

func TestExtract_Tree(t *testing.T) {
	stats, err := Extract(testProfile())
	require.NoError(t, err)

	assert.Equal(t, int64(8), stats.Tree.TotalCalls)
	assert.Equal(t, int64(7), stats.Tree.PrimitiveCalls)
	assert.Equal(t, 3, stats.Tree.TotalFunctions)

	want := []*report.CallNode{{
		Name: "main.main", CumulativeTime: 0.04,
		Children: []*report.CallNode{
			{Name: "main.work", CumulativeTime: 0.02},
			{Name: "main.fib", CumulativeTime: 0.01, Children: []*report.CallNode{
				{Name: "main.fib", CumulativeTime: 0.01},
			}},
		},
	}}
	testutil.CheckDeepEqual(t, want, stats.Tree.Roots)
}

func TestExtract_InlinedFrames(t *testing.T) {
	outer := &profile.Function{ID: 1, Name: "pkg.outer", Filename: "a.go"}
	inner := &profile.Function{ID: 2, Name: "pkg.inner", Filename: "a.go"}
	loc := &profile.Location{ID: 1, Line: []profile.Line{{Function: inner}, {Function: outer}}}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "cpu", Unit: "nanoseconds"}},
		Sample:     []*profile.Sample{{Location: []*profile.Location{loc}, Value: []int64{5 * ms}}},
		Location:   []*profile.Location{loc},
		Function:   []*profile.Function{outer, inner},
	}

	stats, err := Extract(p)
	require.NoError(t, err)
	assert.InDelta(t, 0.005, rowByName(t, stats.Rows, "pkg.inner").SelfTime, 1e-12)
	assert.Zero(t, rowByName(t, stats.Rows, "pkg.outer").SelfTime)
	assert.InDelta(t, 0.005, rowByName(t, stats.Rows, "pkg.outer").CumulativeTime, 1e-12)
	require.Len(t, stats.Tree.Roots, 1)
	assert.Equal(t, "pkg.outer", stats.Tree.Roots[0].Name)
}

func TestExtract_CountOnlyProfile(t *testing.T) {
	fn := &profile.Function{ID: 1, Name: "f"}
	loc := &profile.Location{ID: 1, Line: []profile.Line{{Function: fn}}}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "samples", Unit: "count"}},
		PeriodType: &profile.ValueType{Type: "cpu", Unit: "milliseconds"},
		Period:     10,
		Sample:     []*profile.Sample{{Location: []*profile.Location{loc}, Value: []int64{3}}},
	}
	stats, err := Extract(p)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, stats.SampledTime, 1e-12)
	assert.Equal(t, "unknown", stats.Rows[0].Filename)
}

func TestExtract_NoTimeSamples(t *testing.T) {
	p := &profile.Profile{SampleType: []*profile.ValueType{{Type: "alloc_objects", Unit: "count"}}}
	_, err := Extract(p)
	if !errors.Is(err, ErrNoCPUSamples) {
		t.Errorf("expected ErrNoCPUSamples, got %v", err)
	}
}

func TestParseFile_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testProfile().Write(&buf))

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/tmp/cpu.pprof", buf.Bytes(), 0o600))

	p, err := ParseFile(fsys, "/tmp/cpu.pprof")
	require.NoError(t, err)
	stats, err := Extract(p)
	require.NoError(t, err)
	assert.InDelta(t, 0.04, rowByName(t, stats.Rows, "main.main").CumulativeTime, 1e-12)

	_, err = ParseFile(fsys, "/tmp/missing.pprof")
	testutil.CheckError(t, true, err)

	require.NoError(t, afero.WriteFile(fsys, "/tmp/garbage.pprof", []byte("not a profile"), 0o600))
	_, err = ParseFile(fsys, "/tmp/garbage.pprof")
	testutil.CheckError(t, true, err)
}
