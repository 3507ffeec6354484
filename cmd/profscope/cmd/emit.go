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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gosayram/profscope/pkg/config"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/format"
	"github.com/Gosayram/profscope/pkg/metrics"
	"github.com/Gosayram/profscope/pkg/output"
	"github.com/Gosayram/profscope/pkg/report"
	"github.com/Gosayram/profscope/pkg/timing"
)

func newBuilder(opts *config.Options) *report.Builder {
	b := report.NewBuilder()
	b.Thresholds = opts.Thresholds
	b.Limit = opts.Limit
	return b
}

// emitReport prints a terminal report or saves the rendered report to the
// output directory, then writes the metrics file if one was requested.
func emitReport(cmd *cobra.Command, opts *config.Options, r *report.ProfileReport) error {
	timer := timing.Start("write")
	defer timer.Stop()

	out := cmd.OutOrStdout()
	data, err := format.Render(opts.Format, r, opts.ShowTree)
	if err != nil {
		return err
	}
	if opts.Format == constants.FormatTerminal {
		if _, err := out.Write(data); err != nil {
			return err
		}
	} else {
		ext, err := format.Extension(opts.Format)
		if err != nil {
			return err
		}
		sink, err := output.NewSink(appFs, opts.OutputDir)
		if err != nil {
			return err
		}
		loc, err := sink.Write(cmd.Context(), output.FileName(report.ScriptStem(r.ScriptPath), ext, now()), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[OK] Report saved: %s\n", loc)
	}

	if opts.MetricsFile != "" {
		c := metrics.New()
		c.ObserveReport(r)
		if err := c.WriteFile(opts.MetricsFile); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", opts.MetricsFile)
	}
	return nil
}
