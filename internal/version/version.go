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


// Package version holds the build information of profscope, set with
// -ldflags "-X github.com/Gosayram/profscope/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"     // e.g. 0.3.0
	Commit  = "none"    // short git sha
	Date    = "unknown" // build timestamp in UTC, RFC3339
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the version. Binaries installed with go install report the
// module version when no version was set at link time.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Info returns detailed version information including commit and build date.
func Info() string {
	return fmt.Sprintf("Commit: %s\nBuild date: %s", Commit, Date)
}
