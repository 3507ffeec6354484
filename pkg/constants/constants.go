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

// Package constants defines common constants used throughout profscope
// including default thresholds, output locations, and environment variable names
package constants

const (
	// DefaultOutputDir is the directory reports are written to when none is given
	DefaultOutputDir = "profscope_reports"

	// FormatTerminal prints the report to stdout instead of writing a file
	FormatTerminal = "terminal"
	// FormatJSON is the persisted report format consumed by compare
	FormatJSON = "json"
	// FormatMarkdown renders the report as a Markdown document
	FormatMarkdown = "markdown"
	// FormatHTML renders the report as a standalone HTML page
	FormatHTML = "html"

	// DefaultBottleneckPercent is the share of total time above which a function is a bottleneck
	DefaultBottleneckPercent = 10.0
	// DefaultHotPathPercent is the share of total time above which a top function gets a hot path note
	DefaultHotPathPercent = 20.0
	// DefaultHighCallCount is the call count above which a top function gets a high call count note
	DefaultHighCallCount = 10000
	// DefaultHotFunctionLimit is how many ranked functions a report keeps
	DefaultHotFunctionLimit = 20
	// DefaultDisplayLimit is how many ranked functions the rendered reports show
	DefaultDisplayLimit = 10

	// DefaultTreeDepth bounds the depth of the rendered call tree
	DefaultTreeDepth = 6
	// DefaultTreeWidth bounds the number of children kept per call tree node
	DefaultTreeWidth = 5

	// DefaultRegressionPercent is the total time increase that counts as a regression
	DefaultRegressionPercent = 10.0
	// DefaultCallsRegressionPercent is the total call increase that counts as a regression
	DefaultCallsRegressionPercent = 20.0

	// TimestampLayout is the layout of the timestamp stored in reports
	TimestampLayout = "2006-01-02 15:04:05"
	// FileTimestampLayout is the layout of the timestamp embedded in report file names
	FileTimestampLayout = "20060102_150405"

	// ModeAuto picks gosource for .go files and directories and exec otherwise
	ModeAuto = "auto"
	// ModeExec runs the target binary directly
	ModeExec = "exec"
	// ModeGoSource builds the Go target with go build and then runs it
	ModeGoSource = "gosource"
	// ModeGoTest profiles a Go package through go test -cpuprofile
	ModeGoTest = "gotest"

	// DefaultGoBinary is the go command used for gosource and gotest modes
	DefaultGoBinary = "go"
	// ProfileFileName is the name of the temporary CPU profile written by the target
	ProfileFileName = "cpu.pprof"

	// GCSPrefix is the prefix for Google Cloud Storage output locations
	GCSPrefix = "gs://"
	// S3Prefix is the prefix for Amazon S3 output locations
	S3Prefix = "s3://"
	// AzureBlobPrefix is the prefix for Azure Blob Storage output locations
	AzureBlobPrefix = "azblob://"
)

// Environment variable names
const (
	// CPUProfileEnv tells an instrumented target where to write its CPU profile
	CPUProfileEnv = "PROFSCOPE_CPUPROFILE"
	// ConfigFileEnv points at a YAML config file
	ConfigFileEnv = "PROFSCOPE_CONFIG"
	// OutputDirEnv overrides the output directory
	OutputDirEnv = "PROFSCOPE_OUTPUT_DIR"
	// FormatEnv overrides the report format
	FormatEnv = "PROFSCOPE_FORMAT"
	// BottleneckThresholdEnv overrides the bottleneck threshold
	BottleneckThresholdEnv = "PROFSCOPE_BOTTLENECK_THRESHOLD"
	// RegressionThresholdEnv overrides the regression threshold
	RegressionThresholdEnv = "PROFSCOPE_REGRESSION_THRESHOLD"
	// BenchmarkFileEnv is where self timing is written after a run
	BenchmarkFileEnv = "BENCHMARK_FILE"
	// S3EndpointEnv is the environment variable name for S3 custom endpoint configuration
	S3EndpointEnv = "S3_ENDPOINT"
	// S3ForcePathStyle is the environment variable name for S3 force path style configuration
	S3ForcePathStyle = "S3_FORCE_PATH_STYLE"
	// AzureConnectionStringEnv holds the Azure storage connection string
	AzureConnectionStringEnv = "AZURE_STORAGE_CONNECTION_STRING"
)

// ReportFormats are the formats accepted by run and analyze.
var ReportFormats = []string{FormatTerminal, FormatJSON, FormatMarkdown, FormatHTML}

// ComparisonFormats are the formats accepted by compare.
var ComparisonFormats = []string{FormatTerminal, FormatJSON, FormatMarkdown}

// Modes are the accepted target modes.
var Modes = []string{ModeAuto, ModeExec, ModeGoSource, ModeGoTest}
