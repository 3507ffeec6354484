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

package report

import (
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const reportFilePerm = 0o644

// Marshal encodes the report as indented JSON.
func Marshal(r *ProfileReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding report")
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a JSON report document.
func Unmarshal(data []byte) (*ProfileReport, error) {
	var r ProfileReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decoding report")
	}
	return &r, nil
}

// Save writes the report as JSON to path on fs, creating parent directories.
func Save(fs afero.Fs, path string, r *ProfileReport) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return errors.Wrapf(afero.WriteFile(fs, path, data, reportFilePerm), "writing %s", path)
}

// Load reads a JSON report from path on fs. A missing file yields an error
// matching fs.ErrNotExist.
func Load(fs afero.Fs, path string) (*ProfileReport, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	r, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return r, nil
}

// ScriptStem returns the base name of the profiled target without its
// extension, used to name report files.
func ScriptStem(scriptPath string) string {
	base := filepath.Base(filepath.Clean(scriptPath))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "profile"
	}
	return stem
}
