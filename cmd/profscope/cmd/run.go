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


package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gosayram/profscope/pkg/config"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/pprofstats"
	"github.com/Gosayram/profscope/pkg/runner"
	"github.com/Gosayram/profscope/pkg/timing"
)

func newRunCmd() *cobra.Command {
	flags := config.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "run [flags] <target> [args...]",
		Short: "Profile a program and report its hot functions",
		Long: "Run a target under the CPU profiler. The target is a binary linking\n" +
			"github.com/Gosayram/profscope/pkg/agent, a .go file or package directory\n" +
			"(built first), or a package profiled through go test.\n" +
			"Flags must precede the target; everything after it is passed to the target.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, flags, constants.ReportFormats)
			if err != nil {
				return err
			}
			return runProfile(cmd, opts, args[0], args[1:])
		},
	}
	cmd.Flags().SetInterspersed(false)
	addReportFlags(cmd, flags)
	cmd.Flags().Var(config.NewChoice(&flags.Mode, flags.Mode, constants.Modes), config.FlagMode,
		"How to run the target (auto, exec, gosource, gotest)")
	cmd.Flags().StringVar(&flags.GoBinary, config.FlagGoBinary, flags.GoBinary,
		"go command used to build or test the target")
	cmd.Flags().StringVar(&flags.TestRun, config.FlagTestRun, flags.TestRun,
		"Regular expression selecting the tests to profile in gotest mode")
	return cmd
}

// addReportFlags registers the flags shared by run and analyze.
func addReportFlags(cmd *cobra.Command, flags *config.Options) {
	cmd.Flags().Var(config.NewChoice(&flags.Format, flags.Format, constants.ReportFormats), config.FlagFormat,
		"Report format (terminal, json, markdown, html)")
	cmd.Flags().StringVar(&flags.OutputDir, config.FlagOutputDir, flags.OutputDir,
		"Directory or gs://, s3://, azblob:// URI that saved reports are written to")
	cmd.Flags().BoolVar(&flags.ShowTree, config.FlagTree, flags.ShowTree,
		"Show the call tree in terminal output")
	cmd.Flags().IntVar(&flags.Limit, config.FlagLimit, flags.Limit,
		"Number of hot functions kept in the report (0 keeps all)")
	cmd.Flags().Float64Var(&flags.Thresholds.BottleneckPercent, config.FlagBottleneckThreshold,
		flags.Thresholds.BottleneckPercent, "Percentage of total time above which a function is a bottleneck")
	cmd.Flags().StringVar(&flags.MetricsFile, config.FlagMetricsFile, flags.MetricsFile,
		"Write Prometheus metrics for the report to this local file")
}

func runProfile(cmd *cobra.Command, opts *config.Options, target string, args []string) error {
	logrus.Infof("Profiling %s...", target)

	res, err := runner.New(appFs).Run(cmd.Context(), runner.Options{
		Target:   target,
		Args:     args,
		Mode:     opts.Mode,
		GoBinary: opts.GoBinary,
		TestRun:  opts.TestRun,
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	timer := timing.Start("analyze")
	stats, err := pprofstats.Extract(res.Profile)
	if err != nil {
		timer.Stop()
		return err
	}
	r := newBuilder(opts).Build(target, res.Elapsed.Seconds(), stats.Rows, stats.Tree)
	timer.Stop()
	logrus.Debugf("Sampled %.3fs of CPU time in %d functions", stats.SampledTime, len(stats.Rows))

	if err := emitReport(cmd, opts, r); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[OK] Profiling complete: %.3fs, %s calls\n",
		r.TotalTime, humanize.Comma(r.TotalCalls))
	return nil
}
