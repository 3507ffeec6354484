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

// Package runner executes a target program under the CPU profiler and
// returns the profile it produced together with the wall time of the run.
package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/Gosayram/profscope/pkg/constants"
	"github.com/Gosayram/profscope/pkg/pprofstats"
	"github.com/Gosayram/profscope/pkg/timing"
)

// ErrNoProfile is returned when the target exits successfully without
// writing a CPU profile.
var ErrNoProfile = errors.New("target did not write a CPU profile")

// ErrTargetNotFound is returned when the target does not exist.
var ErrTargetNotFound = errors.New("target not found")

const binaryName = "target"

// Options describe one profiled run
type Options struct {
	Target string
	Args   []string
	Mode   string
	// GoBinary is the go command used by the gosource and gotest modes.
	GoBinary string
	// TestRun is the -run pattern for the gotest mode.
	TestRun string
	// Env is appended to the current environment of the target.
	Env []string
	// Dir is the working directory of the target and of the go commands.
	// Tests profiled in gotest mode run in their package directory instead.
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of a successful run
type Result struct {
	Target  string
	Mode    string
	Elapsed time.Duration
	Profile *profile.Profile
}

// ExecutionError reports a target that could not be built or exited with an error
type ExecutionError struct {
	Target   string
	Stage    string
	ExitCode int
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Stage == stageBuild {
		return fmt.Sprintf("building %s failed: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("script execution failed: %s: %v", e.Target, e.Err)
}

// Unwrap returns the underlying process error
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

const (
	stageBuild = "build"
	stageRun   = "run"
)

// Runner spawns profiled targets. Temporary files live on fs, which must be
// backed by the real filesystem because the target writes to it.
type Runner struct {
	fs       afero.Fs
	lookPath func(string) (string, error)
}

// New creates a Runner using fs for temporary files
func New(fs afero.Fs) *Runner {
	return &Runner{fs: fs, lookPath: exec.LookPath}
}

// ResolveMode maps the auto mode to a concrete one: .go files and directories
// are built from source, anything else is executed directly.
func (r *Runner) ResolveMode(target, mode string) string {
	if mode != "" && mode != constants.ModeAuto {
		return mode
	}
	if strings.HasSuffix(target, ".go") {
		return constants.ModeGoSource
	}
	if isDir, err := afero.IsDir(r.fs, target); err == nil && isDir {
		return constants.ModeGoSource
	}
	return constants.ModeExec
}

// Run profiles the target and returns its CPU profile.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	mode := r.ResolveMode(opts.Target, opts.Mode)
	goBin := opts.GoBinary
	if goBin == "" {
		goBin = constants.DefaultGoBinary
	}

	if err := r.checkTarget(opts.Target, mode); err != nil {
		return nil, err
	}

	tmpDir, err := afero.TempDir(r.fs, "", "profscope-")
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary directory")
	}
	defer func() {
		if err := r.fs.RemoveAll(tmpDir); err != nil {
			logrus.Warnf("Failed to remove %s: %v", tmpDir, err)
		}
	}()
	profilePath := filepath.Join(tmpDir, constants.ProfileFileName)

	var argv []string
	switch mode {
	case constants.ModeExec:
		argv = append([]string{opts.Target}, opts.Args...)
	case constants.ModeGoSource:
		bin := filepath.Join(tmpDir, binaryName)
		if err := r.build(ctx, opts, BuildCommand(goBin, opts.Target, bin)); err != nil {
			return nil, err
		}
		argv = append([]string{bin}, opts.Args...)
	case constants.ModeGoTest:
		// go test runs the binary in the package directory; so does profscope.
		pkgDir, err := r.packageDir(ctx, goBin, opts)
		if err != nil {
			return nil, err
		}
		bin := filepath.Join(tmpDir, binaryName+".test")
		if err := r.build(ctx, opts, GoTestBuildCommand(goBin, opts.Target, bin)); err != nil {
			return nil, err
		}
		argv = GoTestRunCommand(bin, opts.TestRun, profilePath, opts.Args)
		opts.Dir = pkgDir
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}

	cmd := r.command(ctx, opts, argv)
	cmd.Env = append(cmd.Env, constants.CPUProfileEnv+"="+profilePath)

	logrus.Debugf("Executing %s", strings.Join(argv, " "))
	timer := timing.Start("execute")
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	timer.Stop()
	if runErr != nil {
		return nil, executionError(opts.Target, stageRun, runErr)
	}

	parseTimer := timing.Start("parse")
	p, err := pprofstats.ParseFile(r.fs, profilePath)
	parseTimer.Stop()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoProfile,
				"%s (link github.com/Gosayram/profscope/pkg/agent or use --mode gotest)", opts.Target)
		}
		return nil, err
	}

	return &Result{Target: opts.Target, Mode: mode, Elapsed: elapsed, Profile: p}, nil
}

func (r *Runner) checkTarget(target, mode string) error {
	if target == "" {
		return errors.Wrap(ErrTargetNotFound, "no target given")
	}
	// go test resolves import paths itself.
	if mode == constants.ModeGoTest {
		return nil
	}
	if mode == constants.ModeExec && !strings.ContainsRune(target, filepath.Separator) {
		if _, err := r.lookPath(target); err != nil {
			return errors.Wrapf(ErrTargetNotFound, "%s", target)
		}
		return nil
	}
	exists, err := afero.Exists(r.fs, target)
	if err != nil {
		return errors.Wrapf(err, "checking %s", target)
	}
	if !exists {
		return errors.Wrapf(ErrTargetNotFound, "%s", target)
	}
	return nil
}

// build runs a compile step. Its time is recorded as the build phase and is
// not part of the measured run.
func (r *Runner) build(ctx context.Context, opts Options, argv []string) error {
	cmd := r.command(ctx, opts, argv)
	// The build's own output goes to stderr so the target's stdout stays clean.
	cmd.Stdout = cmd.Stderr

	logrus.Infof("Building %s", opts.Target)
	logrus.Debugf("Executing %s", strings.Join(argv, " "))
	timer := timing.Start("build")
	defer timer.Stop()
	if err := cmd.Run(); err != nil {
		return executionError(opts.Target, stageBuild, err)
	}
	return nil
}

// packageDir resolves the directory of the package named by opts.Target.
func (r *Runner) packageDir(ctx context.Context, goBin string, opts Options) (string, error) {
	argv := []string{goBin, "list", "-f", "{{.Dir}}", opts.Target}
	cmd := r.command(ctx, opts, argv)
	cmd.Stdout = nil

	logrus.Debugf("Executing %s", strings.Join(argv, " "))
	timer := timing.Start("build")
	out, err := cmd.Output()
	timer.Stop()
	if err != nil {
		return "", executionError(opts.Target, stageBuild, err)
	}
	dirs := strings.Fields(strings.TrimSpace(string(out)))
	if len(dirs) != 1 {
		return "", &ExecutionError{
			Target:   opts.Target,
			Stage:    stageBuild,
			ExitCode: 1,
			Err:      fmt.Errorf("gotest mode needs exactly one package, %q matches %d", opts.Target, len(dirs)),
		}
	}
	return dirs[0], nil
}

func (r *Runner) command(ctx context.Context, opts Options, argv []string) *exec.Cmd {
	// #nosec G204 - the target is chosen by the user invoking profscope
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// BuildCommand returns the go build invocation for a source target.
func BuildCommand(goBin, target, out string) []string {
	return []string{goBin, "build", "-o", out, target}
}

// GoTestBuildCommand returns the go test -c invocation compiling the tests
// of pkg into out.
func GoTestBuildCommand(goBin, pkg, out string) []string {
	return []string{goBin, "test", "-c", "-o", out, pkg}
}

// GoTestRunCommand returns the invocation of a compiled test binary that runs
// the tests matching run once with the CPU profile written to profilePath.
func GoTestRunCommand(bin, run, profilePath string, args []string) []string {
	if run == "" {
		run = "."
	}
	argv := []string{bin, "-test.run", run, "-test.count=1", "-test.cpuprofile", profilePath}
	return append(argv, args...)
}

func executionError(target, stage string, err error) error {
	code := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ExecutionError{Target: target, Stage: stage, ExitCode: code, Err: err}
}
