/*
Copyright 2018 Google LLC

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

// Package testutil holds assertion and fixture helpers shared by profscope tests.
package testutil

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/afero"
)

const (
	defaultDirPerm  = 0o750
	defaultFilePerm = 0o600

	// FloatTolerance is the absolute tolerance used when comparing derived times and percentages.
	FloatTolerance = 1e-9
)

// SetupFiles creates files under root on fs
func SetupFiles(fs afero.Fs, root string, files map[string]string) error {
	for p, c := range files {
		fullPath := filepath.Join(root, p)
		if err := fs.MkdirAll(filepath.Dir(fullPath), defaultDirPerm); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, fullPath, []byte(c), defaultFilePerm); err != nil {
			return err
		}
	}
	return nil
}

// CheckDeepEqual checks if two values are deeply equal using cmp.Diff.
// Floats are compared with FloatTolerance.
func CheckDeepEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if diff := cmp.Diff(actual, expected, cmpopts.EquateApprox(0, FloatTolerance)); diff != "" {
		t.Errorf("%T differ (-got, +want): %s", expected, diff)
	}
}

// CheckErrorAndDeepEqual checks for expected errors and deep equality of values
func CheckErrorAndDeepEqual(t *testing.T, shouldErr bool, err error, expected, actual interface{}) {
	t.Helper()
	if checkErr := checkErr(shouldErr, err); checkErr != nil {
		t.Error(checkErr)
		return
	}
	if shouldErr {
		return
	}
	CheckDeepEqual(t, expected, actual)
}

// CheckError checks if the error condition matches expectations
func CheckError(t *testing.T, shouldErr bool, err error) {
	t.Helper()
	if checkErr := checkErr(shouldErr, err); checkErr != nil {
		t.Error(checkErr)
	}
}

// CheckNoError verifies that no error occurred
func CheckNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("%+v", err)
	}
}

// ApproxEqual reports whether a and b differ by at most FloatTolerance.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}

func checkErr(shouldErr bool, err error) error {
	if err == nil && shouldErr {
		return fmt.Errorf("expected error, but returned none")
	}
	if err != nil && !shouldErr {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}
