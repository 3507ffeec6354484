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

// Package report turns raw per-function call statistics into ranked,
// annotated profiling reports and persists them as JSON.
package report

// Row is one function's raw statistics as produced by the profile parser.
// Times are in seconds.
type Row struct {
	Name           string
	Filename       string
	Line           int
	TotalCalls     int64
	PrimitiveCalls int64
	SelfTime       float64
	CumulativeTime float64
}

// FunctionStats is a ranked function entry of a ProfileReport
type FunctionStats struct {
	Name              string  `json:"name"`
	Filename          string  `json:"filename"`
	LineNumber        int     `json:"line_number"`
	TotalCalls        int64   `json:"total_calls"`
	PrimitiveCalls    int64   `json:"primitive_calls"`
	TotalTime         float64 `json:"total_time"`
	CumulativeTime    float64 `json:"cumulative_time"`
	TimePerCall       float64 `json:"time_per_call"`
	CumulativePerCall float64 `json:"cumulative_per_call"`
	Percentage        float64 `json:"percentage"`
}

// Recursive reports whether the function re-entered itself within a single stack.
func (f FunctionStats) Recursive() bool {
	return f.PrimitiveCalls < f.TotalCalls
}

// CallNode is a node of the caller to callee tree.
type CallNode struct {
	Name           string      `json:"name"`
	CumulativeTime float64     `json:"cumulative_time"`
	Children       []*CallNode `json:"children,omitempty"`
}

// CallTree summarizes the call graph of one run.
type CallTree struct {
	TotalCalls     int64       `json:"total_calls"`
	PrimitiveCalls int64       `json:"primitive_calls"`
	TotalFunctions int         `json:"total_functions"`
	Roots          []*CallNode `json:"roots,omitempty"`
}

// ProfileReport is the complete result of profiling one run. It is built once
// by a Builder and not modified afterwards.
type ProfileReport struct {
	ScriptPath      string          `json:"script_path"`
	TotalTime       float64         `json:"total_time"`
	TotalCalls      int64           `json:"total_calls"`
	HotFunctions    []FunctionStats `json:"hot_functions"`
	Bottlenecks     []string        `json:"bottlenecks"`
	CallTree        CallTree        `json:"call_tree"`
	Recommendations []string        `json:"recommendations"`
	Timestamp       string          `json:"timestamp"`
}
