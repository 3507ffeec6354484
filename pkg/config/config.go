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

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Gosayram/profscope/pkg/constants"
)

// Choice is a string flag restricted to a fixed set of values
type Choice struct {
	Value   *string
	Allowed []string
}

var _ pflag.Value = (*Choice)(nil)

// NewChoice binds a Choice to target with the given default
func NewChoice(target *string, def string, allowed []string) *Choice {
	*target = def
	return &Choice{Value: target, Allowed: allowed}
}

func (c *Choice) String() string {
	if c.Value == nil {
		return ""
	}
	return *c.Value
}

// Set validates and stores the value
func (c *Choice) Set(v string) error {
	if !contains(c.Allowed, v) {
		return fmt.Errorf("must be one of %s", strings.Join(c.Allowed, "|"))
	}
	*c.Value = v
	return nil
}

// Type names the flag value in help output
func (c *Choice) Type() string {
	return "string"
}

// LoadFile overlays the YAML file at path onto opts. Unknown keys are rejected.
func LoadFile(fs afero.Fs, path string, opts *Options) error {
	f, err := fs.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening config file")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil {
		return errors.Wrapf(err, "decoding config file %s", path)
	}
	logrus.Debugf("Loaded config file %s", path)
	return nil
}

// ApplyEnv overlays PROFSCOPE_* environment variables onto opts.
func ApplyEnv(opts *Options, getenv func(string) string) error {
	if v := getenv(constants.OutputDirEnv); v != "" {
		opts.OutputDir = v
	}
	if v := getenv(constants.FormatEnv); v != "" {
		opts.Format = v
	}
	if v := getenv(constants.BottleneckThresholdEnv); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", constants.BottleneckThresholdEnv)
		}
		opts.Thresholds.BottleneckPercent = f
	}
	if v := getenv(constants.RegressionThresholdEnv); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", constants.RegressionThresholdEnv)
		}
		opts.Regression.TimePercent = f
	}
	return nil
}

// Resolve builds the effective options. Precedence, lowest first: defaults,
// the config file (if configPath is set), the environment, then every flag
// reported as changed, whose value is taken from flags.
func Resolve(fs afero.Fs, configPath string, getenv func(string) string,
	flags *Options, changed func(name string) bool) (*Options, error) {
	opts := DefaultOptions()
	if configPath != "" {
		if err := LoadFile(fs, configPath, opts); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(opts, getenv); err != nil {
		return nil, err
	}

	overrides := map[string]func(){
		FlagFormat:              func() { opts.Format = flags.Format },
		FlagOutputDir:           func() { opts.OutputDir = flags.OutputDir },
		FlagTree:                func() { opts.ShowTree = flags.ShowTree },
		FlagMode:                func() { opts.Mode = flags.Mode },
		FlagGoBinary:            func() { opts.GoBinary = flags.GoBinary },
		FlagTestRun:             func() { opts.TestRun = flags.TestRun },
		FlagMetricsFile:         func() { opts.MetricsFile = flags.MetricsFile },
		FlagLimit:               func() { opts.Limit = flags.Limit },
		FlagBottleneckThreshold: func() { opts.Thresholds.BottleneckPercent = flags.Thresholds.BottleneckPercent },
		FlagRegressionThreshold: func() { opts.Regression.TimePercent = flags.Regression.TimePercent },
	}
	for name, apply := range overrides {
		if changed(name) {
			apply()
		}
	}
	return opts, nil
}
