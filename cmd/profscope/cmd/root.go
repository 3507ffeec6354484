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


// Package cmd provides the command-line interface for profscope.
package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Gosayram/profscope/internal/version"
	"github.com/Gosayram/profscope/pkg/config"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/logging"
	"github.com/Gosayram/profscope/pkg/output"
	"github.com/Gosayram/profscope/pkg/timing"
)

// ErrRegression is returned by the compare command when the current report
// regressed against the baseline.
var ErrRegression = errors.New("performance regression detected")

var (
	logLevel     string
	logFormat    string
	logTimestamp bool
	configFile   string

	appFs  = afero.NewOsFs()
	getenv = os.Getenv
	now    = time.Now
)

// RootCmd is the profscope command that is run
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profscope",
		Short: "Profile Go programs and compare performance reports",
		Long: "profscope runs a program under the Go CPU profiler, turns the profile into\n" +
			"a report of hot functions, bottlenecks and recommendations, and compares\n" +
			"saved reports to catch performance regressions.",
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logging.Configure(cmd.ErrOrStderr(), logging.Options{
				Level:     logLevel,
				Format:    logFormat,
				Timestamp: logTimestamp,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			logrus.Debug(timing.Summary())
			writeBenchmarkFile(cmd.Context())
		},
	}
	root.SetVersionTemplate("profscope {{.Version}}\n" + version.Info() + "\n")

	root.PersistentFlags().StringVarP(&logLevel, "verbosity", "v", logging.DefaultLevel,
		"Log level (trace, debug, info, warn, error, fatal, panic)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatProfscope,
		"Log format ("+strings.Join(logging.Formats(), ", ")+")")
	root.PersistentFlags().BoolVar(&logTimestamp, "log-timestamp", logging.DefaultLogTimestamp,
		"Timestamp in log output")
	root.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML config file (defaults to $"+constants.ConfigFileEnv+")")

	root.AddCommand(newRunCmd(), newAnalyzeCmd(), newCompareCmd())
	return root
}

// resolveOptions merges defaults, the config file, the environment and the
// flags the user set on cmd. formats are the output formats cmd can render.
func resolveOptions(cmd *cobra.Command, flags *config.Options, formats []string) (*config.Options, error) {
	path := configFile
	if path == "" {
		path = getenv(constants.ConfigFileEnv)
	}
	opts, err := config.Resolve(appFs, path, getenv, flags, cmd.Flags().Changed)
	if err != nil {
		return nil, err
	}
	if configured := opts.Format; opts.RestrictFormat(formats) {
		logrus.Warnf("Format %q does not apply to %s, using %s", configured, cmd.Name(), opts.Format)
	}
	if err := opts.Validate(formats); err != nil {
		return nil, err
	}
	return opts, nil
}

func writeBenchmarkFile(ctx context.Context) {
	benchmarkFile := getenv(constants.BenchmarkFileEnv)
	// false turns benchmarking off
	if benchmarkFile == "" || benchmarkFile == "false" {
		return
	}
	s, err := timing.JSON()
	if err != nil {
		logrus.Warnf("Unable to write benchmark file: %s", err)
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	loc, err := output.WriteTo(ctx, appFs, benchmarkFile, []byte(s))
	if err != nil {
		logrus.Warnf("Unable to write benchmark file %s: %v", benchmarkFile, err)
		return
	}
	logrus.Infof("Benchmark file written at %s", loc)
}
