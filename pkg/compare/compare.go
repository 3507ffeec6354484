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

// Package compare diffs a baseline and a current profiling report to detect
// performance regressions.
package compare

import (
	"context"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/report"
)

// Thresholds are the percentage increases that count as a regression.
type Thresholds struct {
	TimePercent  float64 `yaml:"time_percent"`
	CallsPercent float64 `yaml:"calls_percent"`
}

// DefaultThresholds returns the regression thresholds used when none are configured
func DefaultThresholds() Thresholds {
	return Thresholds{
		TimePercent:  constants.DefaultRegressionPercent,
		CallsPercent: constants.DefaultCallsRegressionPercent,
	}
}

// Result is the outcome of comparing two reports.
type Result struct {
	BaselineTime       float64  `json:"baseline_time"`
	CurrentTime        float64  `json:"current_time"`
	TimeChangePercent  float64  `json:"time_change_percent"`
	BaselineCalls      int64    `json:"baseline_calls"`
	CurrentCalls       int64    `json:"current_calls"`
	CallsChangePercent float64  `json:"calls_change_percent"`
	NewBottlenecks     []string `json:"new_bottlenecks"`
	FixedBottlenecks   []string `json:"fixed_bottlenecks"`
	RegressionDetected bool     `json:"regression_detected"`
}

// Comparator loads persisted reports and compares them.
type Comparator struct {
	fs         afero.Fs
	thresholds Thresholds
}

// NewComparator creates a Comparator reading reports from fsys
func NewComparator(fsys afero.Fs, thresholds Thresholds) *Comparator {
	return &Comparator{fs: fsys, thresholds: thresholds}
}

// CompareFiles loads the baseline and current JSON reports and compares them.
// A missing input yields an error matching fs.ErrNotExist.
func (c *Comparator) CompareFiles(ctx context.Context, baselinePath, currentPath string) (*Result, error) {
	var baseline, current *report.ProfileReport

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.load(baselinePath, "baseline")
		baseline = r
		return err
	})
	g.Go(func() error {
		r, err := c.load(currentPath, "current")
		current = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Compare(baseline, current, c.thresholds), nil
}

func (c *Comparator) load(path, role string) (*report.ProfileReport, error) {
	r, err := report.Load(c.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "%s report not found: %s", role, path)
		}
		return nil, errors.Wrapf(err, "loading %s report", role)
	}
	return r, nil
}

// Compare computes the change from baseline to current.
func Compare(baseline, current *report.ProfileReport, t Thresholds) *Result {
	res := &Result{
		BaselineTime:       baseline.TotalTime,
		CurrentTime:        current.TotalTime,
		TimeChangePercent:  ChangePercent(baseline.TotalTime, current.TotalTime),
		BaselineCalls:      baseline.TotalCalls,
		CurrentCalls:       current.TotalCalls,
		CallsChangePercent: ChangePercent(float64(baseline.TotalCalls), float64(current.TotalCalls)),
		NewBottlenecks:     missingByName(current.Bottlenecks, baseline.Bottlenecks),
		FixedBottlenecks:   missingByName(baseline.Bottlenecks, current.Bottlenecks),
	}
	res.RegressionDetected = res.TimeChangePercent > t.TimePercent || res.CallsChangePercent > t.CallsPercent
	return res
}

// ChangePercent returns (current - baseline) / baseline * 100, or 0 when the
// baseline is not positive.
func ChangePercent(baseline, current float64) float64 {
	if baseline <= 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}

// missingByName returns the entries of from whose function name does not
// appear in other, keeping the order of from.
func missingByName(from, other []string) []string {
	names := make(map[string]bool, len(other))
	for _, e := range other {
		names[report.BottleneckName(e)] = true
	}
	missing := []string{}
	for _, e := range from {
		if !names[report.BottleneckName(e)] {
			missing = append(missing, e)
		}
	}
	return missing
}
