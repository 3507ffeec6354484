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

package constants

import (
	"strings"
	"testing"
)

func TestConstants_Thresholds(t *testing.T) {
	if DefaultBottleneckPercent != 10.0 {
		t.Errorf("Expected DefaultBottleneckPercent=10, got %v", DefaultBottleneckPercent)
	}
	if DefaultRegressionPercent != 10.0 {
		t.Errorf("Expected DefaultRegressionPercent=10, got %v", DefaultRegressionPercent)
	}
	if DefaultHotPathPercent <= DefaultBottleneckPercent {
		t.Errorf("hot path threshold %v should be above bottleneck threshold %v",
			DefaultHotPathPercent, DefaultBottleneckPercent)
	}
	if DefaultDisplayLimit > DefaultHotFunctionLimit {
		t.Errorf("display limit %d exceeds kept functions %d", DefaultDisplayLimit, DefaultHotFunctionLimit)
	}
}

func TestConstants_StoragePrefixes(t *testing.T) {
	for _, prefix := range []string{GCSPrefix, S3Prefix, AzureBlobPrefix} {
		if !strings.HasSuffix(prefix, "://") {
			t.Errorf("Storage prefix %q should end with ://", prefix)
		}
	}
}

func TestConstants_Formats(t *testing.T) {
	if ReportFormats[0] != FormatTerminal {
		t.Errorf("terminal should be the first report format, got %q", ReportFormats[0])
	}
	for _, f := range ComparisonFormats {
		if f == FormatHTML {
			t.Error("comparison formats should not include html")
		}
	}
}

func TestConstants_EnvNames(t *testing.T) {
	for _, name := range []string{CPUProfileEnv, ConfigFileEnv, OutputDirEnv, FormatEnv,
		BottleneckThresholdEnv, RegressionThresholdEnv} {
		if !strings.HasPrefix(name, "PROFSCOPE_") {
			t.Errorf("env var %q should start with PROFSCOPE_", name)
		}
	}
}
