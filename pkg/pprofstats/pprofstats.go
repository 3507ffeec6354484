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

// Package pprofstats derives per-function call statistics and a call tree
// from a CPU profile in pprof format.
//
// Go's profiler samples stacks rather than counting calls, so call counts
// are sample counts: a function's total calls is the number of frames naming
// it and its primitive calls is the number of samples containing it at least
// once. A function seen more than once in a stack is recursive.
package pprofstats

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Gosayram/profscope/pkg/report"
)

// ErrNoCPUSamples is returned when a profile carries no time-valued sample type.
var ErrNoCPUSamples = errors.New("profile has no CPU time samples")

const unknownFile = "unknown"

// Stats is the result of extracting a profile.
type Stats struct {
	Rows []report.Row
	Tree report.CallTree
	// SampledTime is the CPU time covered by all samples, in seconds.
	SampledTime float64
	// Duration is the profiling duration recorded in the profile, in seconds.
	Duration float64
}

// Parse decodes a (possibly gzipped) pprof profile.
func Parse(r io.Reader) (*profile.Profile, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing pprof profile")
	}
	return p, nil
}

// ParseFile reads and decodes the profile at path on fs.
func ParseFile(fs afero.Fs, path string) (*profile.Profile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return p, nil
}

type funcKey struct {
	name string
	file string
	line int
}

type frame struct {
	key  funcKey
	name string
}

type treeNode struct {
	name     string
	cum      float64
	children map[string]*treeNode
	order    []string
}

func (n *treeNode) child(name string) *treeNode {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := &treeNode{name: name, children: map[string]*treeNode{}}
	n.children[name] = c
	n.order = append(n.order, name)
	return c
}

func (n *treeNode) callNodes() []*report.CallNode {
	if len(n.order) == 0 {
		return nil
	}
	nodes := make([]*report.CallNode, 0, len(n.order))
	for _, name := range n.order {
		c := n.children[name]
		nodes = append(nodes, &report.CallNode{
			Name:           c.name,
			CumulativeTime: c.cum,
			Children:       c.callNodes(),
		})
	}
	return nodes
}

// Extract aggregates the samples of p into per-function rows and a call tree.
func Extract(p *profile.Profile) (*Stats, error) {
	valueIdx, scale, err := timeValue(p)
	if err != nil {
		return nil, err
	}
	countIdx := sampleTypeIndex(p, "samples")

	rows := map[funcKey]*report.Row{}
	var order []funcKey
	root := &treeNode{children: map[string]*treeNode{}}
	stats := &Stats{Duration: float64(p.DurationNanos) / 1e9}

	for _, s := range p.Sample {
		frames := stackFrames(s)
		if len(frames) == 0 || valueIdx >= len(s.Value) {
			continue
		}
		v := float64(s.Value[valueIdx]) * scale
		n := int64(1)
		if countIdx >= 0 && countIdx < len(s.Value) {
			n = s.Value[countIdx]
		}

		seen := make(map[funcKey]bool, len(frames))
		for i, f := range frames {
			r, ok := rows[f.key]
			if !ok {
				r = &report.Row{Name: f.key.name, Filename: f.key.file, Line: f.key.line}
				rows[f.key] = r
				order = append(order, f.key)
			}
			r.TotalCalls += n
			if i == 0 {
				r.SelfTime += v
			}
			if !seen[f.key] {
				seen[f.key] = true
				r.PrimitiveCalls += n
				r.CumulativeTime += v
			}
		}

		cur := root
		for i := len(frames) - 1; i >= 0; i-- {
			cur = cur.child(frames[i].name)
			cur.cum += v
		}
		stats.SampledTime += v
	}

	stats.Rows = make([]report.Row, 0, len(order))
	for _, k := range order {
		r := rows[k]
		stats.Rows = append(stats.Rows, *r)
		stats.Tree.TotalCalls += r.TotalCalls
		stats.Tree.PrimitiveCalls += r.PrimitiveCalls
	}
	stats.Tree.TotalFunctions = len(stats.Rows)
	stats.Tree.Roots = root.callNodes()
	return stats, nil
}

// stackFrames flattens a sample's stack leaf first, expanding inlined frames.
func stackFrames(s *profile.Sample) []frame {
	frames := make([]frame, 0, len(s.Location))
	for _, loc := range s.Location {
		if len(loc.Line) == 0 {
			name := fmt.Sprintf("0x%x", loc.Address)
			frames = append(frames, frame{key: funcKey{name: name, file: unknownFile}, name: name})
			continue
		}
		for _, line := range loc.Line {
			if line.Function == nil {
				continue
			}
			fn := line.Function
			file := unknownFile
			if fn.Filename != "" {
				file = filepath.Base(fn.Filename)
			}
			frames = append(frames, frame{
				key:  funcKey{name: fn.Name, file: file, line: int(fn.StartLine)},
				name: fn.Name,
			})
		}
	}
	return frames
}

// timeValue locates the sample value holding CPU time and the factor that
// converts it to seconds.
func timeValue(p *profile.Profile) (int, float64, error) {
	if i := sampleTypeIndex(p, "cpu"); i >= 0 {
		if scale, ok := unitScale(p.SampleType[i].Unit); ok {
			return i, scale, nil
		}
	}
	for i := len(p.SampleType) - 1; i >= 0; i-- {
		if scale, ok := unitScale(p.SampleType[i].Unit); ok {
			return i, scale, nil
		}
	}
	// Count-only profiles: weight each sample by the sampling period.
	if i := sampleTypeIndex(p, "samples"); i >= 0 && p.PeriodType != nil && p.Period > 0 {
		if scale, ok := unitScale(p.PeriodType.Unit); ok {
			return i, scale * float64(p.Period), nil
		}
	}
	return 0, 0, ErrNoCPUSamples
}

func sampleTypeIndex(p *profile.Profile, typ string) int {
	for i, st := range p.SampleType {
		if st.Type == typ {
			return i
		}
	}
	return -1
}

func unitScale(unit string) (float64, bool) {
	switch unit {
	case "nanoseconds":
		return 1e-9, true
	case "microseconds":
		return 1e-6, true
	case "milliseconds":
		return 1e-3, true
	case "seconds":
		return 1, true
	default:
		return 0, false
	}
}
