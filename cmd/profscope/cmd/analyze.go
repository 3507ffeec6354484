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
	"github.com/spf13/cobra"

	"github.com/Gosayram/profscope/pkg/config"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/pprofstats"
	"github.com/Gosayram/profscope/pkg/timing"
)

func newAnalyzeCmd() *cobra.Command {
	flags := config.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "analyze [flags] <profile.pprof>",
		Short: "Build a report from an existing CPU profile",
		Long: "Analyze a pprof CPU profile written by go test -cpuprofile, runtime/pprof\n" +
			"or net/http/pprof. The total time is the profile's duration, or the sampled\n" +
			"CPU time when the profile does not record one.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, flags, constants.ReportFormats)
			if err != nil {
				return err
			}
			return analyzeProfile(cmd, opts, args[0])
		},
	}
	addReportFlags(cmd, flags)
	return cmd
}

func analyzeProfile(cmd *cobra.Command, opts *config.Options, path string) error {
	timer := timing.Start("parse")
	p, err := pprofstats.ParseFile(appFs, path)
	timer.Stop()
	if err != nil {
		return err
	}

	timer = timing.Start("analyze")
	stats, err := pprofstats.Extract(p)
	if err != nil {
		timer.Stop()
		return err
	}
	total := stats.Duration
	if total <= 0 {
		total = stats.SampledTime
	}
	r := newBuilder(opts).Build(path, total, stats.Rows, stats.Tree)
	timer.Stop()

	if err := emitReport(cmd, opts, r); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[OK] Analysis complete: %.3fs, %s calls\n",
		r.TotalTime, humanize.Comma(r.TotalCalls))
	return nil
}
