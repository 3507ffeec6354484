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

package format

import (
	"html/template"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/Gosayram/profscope/pkg/report"
)

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"comma": humanize.Comma,
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>profscope Report</title>
<style>body{font-family:Arial,sans-serif;margin:20px;}table{border-collapse:collapse;width:100%;}th,td{border:1px solid #ddd;padding:8px;text-align:left;}th{background:#4CAF50;color:white;}</style>
</head><body>
<h1>Performance Report: {{.Name}}</h1>
<p><strong>Total Time:</strong> {{printf "%.3f" .Report.TotalTime}}s</p>
<p><strong>Total Calls:</strong> {{comma .Report.TotalCalls}}</p>
<p><strong>Timestamp:</strong> {{.Report.Timestamp}}</p>
<h2>Hot Functions</h2>
<table><tr><th>Function</th><th>Time (s)</th><th>Calls</th><th>%</th></tr>
{{- range .Functions}}
<tr><td>{{.Name}}</td><td>{{printf "%.3f" .CumulativeTime}}</td><td>{{comma .TotalCalls}}</td><td>{{printf "%.1f" .Percentage}}%</td></tr>
{{- end}}
</table>
{{- if .Report.Bottlenecks}}
<h2>Bottlenecks</h2><ul>
{{- range .Report.Bottlenecks}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .Report.Recommendations}}
<h2>Recommendations</h2><ol>
{{- range .Report.Recommendations}}
<li>{{.}}</li>
{{- end}}
</ol>
{{- end}}
</body></html>
`))

// HTML renders the report as a standalone HTML page. Function names and
// messages are escaped.
func HTML(r *report.ProfileReport) (string, error) {
	var b strings.Builder
	err := htmlReport.Execute(&b, struct {
		Name      string
		Report    *report.ProfileReport
		Functions []report.FunctionStats
	}{
		Name:      displayName(r.ScriptPath),
		Report:    r,
		Functions: displayed(r.HotFunctions),
	})
	if err != nil {
		return "", errors.Wrap(err, "rendering html report")
	}
	return b.String(), nil
}

func displayName(scriptPath string) string {
	return filepath.Base(scriptPath)
}
