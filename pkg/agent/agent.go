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

// Package agent lets a Go program be profiled by profscope. Link it into the
// target and call Start at the top of main:
//
//	func main() {
//		defer agent.Start()()
//		...
//	}
//
// When profscope runs the program it sets PROFSCOPE_CPUPROFILE and the agent
// writes a CPU profile there. Without the variable Start does nothing.
package agent

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/Gosayram/profscope/pkg/constants"
)

// Start begins CPU profiling if PROFSCOPE_CPUPROFILE is set and returns the
// function that stops it and flushes the profile.
func Start() func() {
	path := os.Getenv(constants.CPUProfileEnv)
	if path == "" {
		return func() {}
	}
	stop, err := StartFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "profscope agent: %v\n", err)
		return func() {}
	}
	return stop
}

// StartFile begins CPU profiling into path.
func StartFile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting cpu profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "profscope agent: closing cpu profile: %v\n", err)
		}
	}, nil
}

// Run profiles fn when PROFSCOPE_CPUPROFILE is set.
func Run(fn func()) {
	stop := Start()
	defer stop()
	fn()
}
