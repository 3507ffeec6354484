/*
Copyright 2018 Google LLC

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

// Package config holds profscope's options and resolves them from defaults,
// a YAML config file, environment variables and command line flags.
package config

import (
	"fmt"

	"github.com/Gosayram/profscope/pkg/compare"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/report"
)

// Flag names shared by the commands and the resolver
const (
	FlagFormat              = "format"
	FlagOutputDir           = "output-dir"
	FlagTree                = "tree"
	FlagMode                = "mode"
	FlagGoBinary            = "go-binary"
	FlagTestRun             = "test-run"
	FlagMetricsFile         = "metrics-file"
	FlagLimit               = "limit"
	FlagBottleneckThreshold = "bottleneck-threshold"
	FlagRegressionThreshold = "regression-threshold"
)

// Options are options that are set by command line arguments, the config
// file or the environment
type Options struct {
	Format      string `yaml:"format"`
	OutputDir   string `yaml:"output_dir"`
	ShowTree    bool   `yaml:"tree"`
	Mode        string `yaml:"mode"`
	GoBinary    string `yaml:"go_binary"`
	TestRun     string `yaml:"test_run"`
	MetricsFile string `yaml:"metrics_file"`
	Limit       int    `yaml:"limit"`

	Thresholds report.Thresholds  `yaml:"thresholds"`
	Regression compare.Thresholds `yaml:"regression"`
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() *Options {
	return &Options{
		Format:     constants.FormatTerminal,
		OutputDir:  constants.DefaultOutputDir,
		Mode:       constants.ModeAuto,
		GoBinary:   constants.DefaultGoBinary,
		Limit:      constants.DefaultHotFunctionLimit,
		Thresholds: report.DefaultThresholds(),
		Regression: compare.DefaultThresholds(),
	}
}

// Validate checks option values that flags alone cannot constrain. formats
// are the output formats the running command accepts.
func (o *Options) Validate(formats []string) error {
	if !contains(formats, o.Format) {
		return fmt.Errorf("unsupported format %q, expected one of %v", o.Format, formats)
	}
	if !contains(constants.Modes, o.Mode) {
		return fmt.Errorf("unsupported mode %q, expected one of %v", o.Mode, constants.Modes)
	}
	if o.Format != constants.FormatTerminal && o.OutputDir == "" {
		return fmt.Errorf("an output directory is required for format %q", o.Format)
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", o.Limit)
	}
	if o.Thresholds.BottleneckPercent < 0 || o.Thresholds.HotPathPercent < 0 || o.Thresholds.HighCallCount < 0 {
		return fmt.Errorf("report thresholds must not be negative: %+v", o.Thresholds)
	}
	if o.Regression.TimePercent < 0 || o.Regression.CallsPercent < 0 {
		return fmt.Errorf("regression thresholds must not be negative: %+v", o.Regression)
	}
	return nil
}

// RestrictFormat replaces a report format the command cannot render, such as
// html for compare, with the terminal format and reports whether it did. The
// file and environment settings are shared by all commands; unknown formats
// are left for Validate to reject.
func (o *Options) RestrictFormat(formats []string) bool {
	if contains(formats, o.Format) || !contains(constants.ReportFormats, o.Format) {
		return false
	}
	o.Format = constants.FormatTerminal
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
