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


package version

import (
	"runtime/debug"
	"testing"

	"github.com/Gosayram/profscope/testutil"
)

func TestString(t *testing.T) {
	oldVersion, oldRead := Version, readBuildInfo
	t.Cleanup(func() { Version, readBuildInfo = oldVersion, oldRead })

	tests := []struct {
		name      string
		version   string
		moduleVer string
		want      string
	}{
		{"ldflags win", "1.2.0", "v0.9.0", "1.2.0"},
		{"go install", "dev", "v0.9.0", "v0.9.0"},
		{"local build", "dev", "(devel)", "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: tt.moduleVer}}, true
			}
			testutil.CheckDeepEqual(t, tt.want, String())
		})
	}
}

func TestInfo(t *testing.T) {
	testutil.CheckDeepEqual(t, "Commit: none\nBuild date: unknown", Info())
}
