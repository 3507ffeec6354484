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

// Package format renders profiling reports and comparisons as terminal text,
// JSON, Markdown and HTML.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/Gosayram/profscope/pkg/compare"
	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/report"
)

const (
	ruleWidth    = 80
	nameWidth    = 40
	maxNameWidth = 38
)

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

// Extension returns the file extension used for a report format
func Extension(format string) (string, error) {
	switch format {
	case constants.FormatJSON:
		return "json", nil
	case constants.FormatMarkdown:
		return "md", nil
	case constants.FormatHTML:
		return "html", nil
	default:
		return "", fmt.Errorf("unsupported format: %q", format)
	}
}

// Render renders r in the given format.
func Render(format string, r *report.ProfileReport, showTree bool) ([]byte, error) {
	switch format {
	case constants.FormatTerminal:
		return []byte(Terminal(r, showTree)), nil
	case constants.FormatJSON:
		return JSON(r)
	case constants.FormatMarkdown:
		return []byte(Markdown(r)), nil
	case constants.FormatHTML:
		s, err := HTML(r)
		return []byte(s), err
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// RenderComparison renders a comparison result in the given format.
func RenderComparison(format string, res *compare.Result) ([]byte, error) {
	switch format {
	case constants.FormatTerminal:
		return []byte(ComparisonTerminal(res)), nil
	case constants.FormatJSON:
		return ComparisonJSON(res)
	case constants.FormatMarkdown:
		return []byte(ComparisonMarkdown(res)), nil
	default:
		return nil, fmt.Errorf("unsupported comparison format: %q", format)
	}
}

// JSON renders the report in its persisted JSON form.
func JSON(r *report.ProfileReport) ([]byte, error) {
	return report.Marshal(r)
}

// Terminal renders the report as aligned plain text.
func Terminal(r *report.ProfileReport, showTree bool) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(heavyRule)
	line("PROFSCOPE PERFORMANCE REPORT")
	line(heavyRule)
	line("Script: %s", r.ScriptPath)
	line("Total Time: %.3fs", r.TotalTime)
	line("Total Calls: %s", humanize.Comma(r.TotalCalls))
	line("Timestamp: %s", r.Timestamp)
	line(heavyRule)
	line("")

	if len(r.HotFunctions) > 0 {
		line("[HOT FUNCTIONS - Top %d by Cumulative Time]", constants.DefaultDisplayLimit)
		line(lightRule)
		line("%-*s %-12s %-12s %-8s", nameWidth, "Function", "Time (s)", "Calls", "%")
		line(lightRule)
		for _, f := range displayed(r.HotFunctions) {
			line("%-*s %-12.3f %-12s %-8.1f", nameWidth, truncate(f.Name, maxNameWidth),
				f.CumulativeTime, humanize.Comma(f.TotalCalls), f.Percentage)
		}
		line("")
	}

	if len(r.Bottlenecks) > 0 {
		line("[BOTTLENECKS DETECTED]")
		line(lightRule)
		for _, bn := range r.Bottlenecks {
			line("[!] %s", bn)
		}
		line("")
	}

	if len(r.Recommendations) > 0 {
		line("[OPTIMIZATION RECOMMENDATIONS]")
		line(lightRule)
		for i, rec := range r.Recommendations {
			line("%d. %s", i+1, rec)
		}
		line("")
	}

	if showTree {
		line("[CALL TREE SUMMARY]")
		line(lightRule)
		line("Total Functions: %d", r.CallTree.TotalFunctions)
		line("Primitive Calls: %s", humanize.Comma(r.CallTree.PrimitiveCalls))
		line("Total Calls: %s", humanize.Comma(r.CallTree.TotalCalls))
		if len(r.CallTree.Roots) > 0 {
			line("")
			report.Walk(r.CallTree.Roots, func(n *report.CallNode, depth int) {
				line("%s%s %.3fs (%.1f%%)", strings.Repeat("  ", depth), n.Name,
					n.CumulativeTime, report.Percentage(n.CumulativeTime, r.TotalTime))
			})
		}
		line("")
	}

	line(heavyRule)
	return b.String()
}

// Markdown renders the report as a Markdown document.
func Markdown(r *report.ProfileReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Performance Report: %s\n\n", displayName(r.ScriptPath))
	fmt.Fprintf(&b, "**Total Time:** %.3fs\n", r.TotalTime)
	fmt.Fprintf(&b, "**Total Calls:** %s\n", humanize.Comma(r.TotalCalls))
	fmt.Fprintf(&b, "**Timestamp:** %s\n\n", r.Timestamp)

	b.WriteString("## Hot Functions\n\n")
	b.WriteString("| Function | Time (s) | Calls | % |\n")
	b.WriteString("|----------|----------|-------|---|\n")
	for _, f := range displayed(r.HotFunctions) {
		fmt.Fprintf(&b, "| %s | %.3f | %s | %.1f%% |\n",
			escapeCell(f.Name), f.CumulativeTime, humanize.Comma(f.TotalCalls), f.Percentage)
	}
	b.WriteString("\n")

	if len(r.Bottlenecks) > 0 {
		b.WriteString("## Bottlenecks\n\n")
		for _, bn := range r.Bottlenecks {
			fmt.Fprintf(&b, "- %s\n", bn)
		}
		b.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ComparisonTerminal renders a comparison as plain text.
func ComparisonTerminal(res *compare.Result) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(heavyRule)
	line("PROFSCOPE COMPARISON REPORT")
	line(heavyRule)
	line("Baseline Time: %.3fs", res.BaselineTime)
	line("Current Time:  %.3fs", res.CurrentTime)
	line("Change:        %+.1f%%", res.TimeChangePercent)
	line("")
	line("Baseline Calls: %s", humanize.Comma(res.BaselineCalls))
	line("Current Calls:  %s", humanize.Comma(res.CurrentCalls))
	line("Change:         %+.1f%%", res.CallsChangePercent)
	line("")

	if len(res.NewBottlenecks) > 0 {
		line("[!] New Bottlenecks:")
		for _, bn := range res.NewBottlenecks {
			line("  - %s", bn)
		}
		line("")
	}
	if len(res.FixedBottlenecks) > 0 {
		line("[OK] Fixed Bottlenecks:")
		for _, bn := range res.FixedBottlenecks {
			line("  - %s", bn)
		}
		line("")
	}

	if res.RegressionDetected {
		line("[!] REGRESSION DETECTED")
	} else {
		line("[OK] No significant performance regression")
	}
	line(heavyRule)
	return b.String()
}

// ComparisonJSON renders a comparison as indented JSON.
func ComparisonJSON(res *compare.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding comparison")
	}
	return append(data, '\n'), nil
}

// ComparisonMarkdown renders a comparison as a Markdown document.
func ComparisonMarkdown(res *compare.Result) string {
	var b strings.Builder
	b.WriteString("# Performance Comparison\n\n")
	b.WriteString("| Metric | Baseline | Current | Change |\n")
	b.WriteString("|--------|----------|---------|--------|\n")
	fmt.Fprintf(&b, "| Total Time (s) | %.3f | %.3f | %+.1f%% |\n",
		res.BaselineTime, res.CurrentTime, res.TimeChangePercent)
	fmt.Fprintf(&b, "| Total Calls | %s | %s | %+.1f%% |\n",
		humanize.Comma(res.BaselineCalls), humanize.Comma(res.CurrentCalls), res.CallsChangePercent)
	b.WriteString("\n")

	if len(res.NewBottlenecks) > 0 {
		b.WriteString("## New Bottlenecks\n\n")
		for _, bn := range res.NewBottlenecks {
			fmt.Fprintf(&b, "- %s\n", bn)
		}
		b.WriteString("\n")
	}
	if len(res.FixedBottlenecks) > 0 {
		b.WriteString("## Fixed Bottlenecks\n\n")
		for _, bn := range res.FixedBottlenecks {
			fmt.Fprintf(&b, "- %s\n", bn)
		}
		b.WriteString("\n")
	}

	if res.RegressionDetected {
		b.WriteString("**Result:** regression detected\n")
	} else {
		b.WriteString("**Result:** no significant performance regression\n")
	}
	return b.String()
}

func displayed(funcs []report.FunctionStats) []report.FunctionStats {
	if len(funcs) > constants.DefaultDisplayLimit {
		return funcs[:constants.DefaultDisplayLimit]
	}
	return funcs
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
