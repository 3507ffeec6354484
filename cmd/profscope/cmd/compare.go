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

	"github.com/Gosayram/profscope/pkg/compare"
	"github.com/Gosayram/profscope/pkg/config"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/format"
	"github.com/Gosayram/profscope/pkg/metrics"
)

func newCompareCmd() *cobra.Command {
	flags := config.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "compare [flags] <baseline.json> <current.json>",
		Short: "Compare two saved JSON reports and flag regressions",
		Long: "Compare a baseline and a current JSON report. The command exits with\n" +
			"status 1 when total time or total calls grew beyond the regression\n" +
			"thresholds, so it can gate CI pipelines.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, flags, constants.ComparisonFormats)
			if err != nil {
				return err
			}
			return compareReports(cmd, opts, args[0], args[1])
		},
	}
	cmd.Flags().Var(config.NewChoice(&flags.Format, flags.Format, constants.ComparisonFormats), config.FlagFormat,
		"Comparison format (terminal, json, markdown)")
	cmd.Flags().Float64Var(&flags.Regression.TimePercent, config.FlagRegressionThreshold,
		flags.Regression.TimePercent, "Total time increase, in percent, reported as a regression")
	cmd.Flags().StringVar(&flags.MetricsFile, config.FlagMetricsFile, flags.MetricsFile,
		"Write Prometheus metrics for the comparison to this local file")
	return cmd
}

func compareReports(cmd *cobra.Command, opts *config.Options, baselinePath, currentPath string) error {
	logrus.Debugf("Comparing %s against baseline %s", currentPath, baselinePath)
	res, err := compare.NewComparator(appFs, opts.Regression).CompareFiles(cmd.Context(), baselinePath, currentPath)
	if err != nil {
		return err
	}

	data, err := format.RenderComparison(opts.Format, res)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	if opts.MetricsFile != "" {
		c := metrics.New()
		c.ObserveComparison(res)
		if err := c.WriteFile(opts.MetricsFile); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", opts.MetricsFile)
	}

	if res.RegressionDetected {
		return fmt.Errorf("%w: time %+.1f%%, calls %+.1f%%",
			ErrRegression, res.TimeChangePercent, res.CallsChangePercent)
	}
	return nil
}
