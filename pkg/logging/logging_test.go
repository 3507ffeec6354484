/*
Copyright 2024 Google LLC

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

package logging

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Format(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		formatter *Formatter
		entry     *logrus.Entry
		want      string
	}{
		{
			name:      "info",
			formatter: &Formatter{},
			entry:     &logrus.Entry{Level: logrus.InfoLevel, Message: "Profiling main.go...", Time: at},
			want:      "[profscope] Profiling main.go...\n",
		},
		{
			name:      "error",
			formatter: &Formatter{},
			entry:     &logrus.Entry{Level: logrus.ErrorLevel, Message: "target failed", Time: at},
			want:      "[profscope] [X] target failed\n",
		},
		{
			name:      "warning with timestamp",
			formatter: &Formatter{ShowTimestamp: true},
			entry:     &logrus.Entry{Level: logrus.WarnLevel, Message: "no samples", Time: at},
			want:      "12:00:00 [profscope] [!] no samples\n",
		},
		{
			name:      "fields are sorted",
			formatter: &Formatter{},
			entry: &logrus.Entry{
				Level:   logrus.DebugLevel,
				Message: "phase done",
				Time:    at,
				Data:    logrus.Fields{"phase": "parse", "elapsed": "12ms"},
			},
			want: "[profscope] [debug] phase done elapsed=12ms phase=parse\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.formatter.Format(tt.entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

// restoreLogger puts the standard logger back after a test reconfigures it.
func restoreLogger(t *testing.T) {
	t.Helper()
	std := logrus.StandardLogger()
	out, level, formatter := std.Out, std.GetLevel(), std.Formatter
	t.Cleanup(func() {
		logrus.SetOutput(out)
		logrus.SetLevel(level)
		logrus.SetFormatter(formatter)
	})
}

func TestConfigure(t *testing.T) {
	restoreLogger(t)

	tests := []struct {
		level, format string
		shouldErr     bool
	}{
		{"info", FormatText, false},
		{"debug", FormatColor, false},
		{"warn", FormatJSON, false},
		{"trace", FormatProfscope, false},
		{"loud", FormatText, true},
		{"info", "xml", true},
	}
	for _, tt := range tests {
		err := Configure(io.Discard, Options{Level: tt.level, Format: tt.format})
		if tt.shouldErr {
			assert.Error(t, err, "%s/%s", tt.level, tt.format)
			continue
		}
		require.NoError(t, err, "%s/%s", tt.level, tt.format)
		assert.Equal(t, tt.level, logrus.GetLevel().String())
	}
}

func TestConfigureInvalidKeepsLogger(t *testing.T) {
	restoreLogger(t)
	var before bytes.Buffer
	require.NoError(t, Configure(&before, Options{Level: "info", Format: FormatProfscope}))

	var after bytes.Buffer
	err := Configure(&after, Options{Level: "debug", Format: "xml"})
	assert.ErrorContains(t, err, "expected one of (color, json, profscope, text)")

	logrus.Info("still here")
	assert.Equal(t, "[profscope] still here\n", before.String())
	assert.Empty(t, after.String())
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestConfigureWritesToGivenWriter(t *testing.T) {
	restoreLogger(t)
	tests := []struct {
		format string
		want   string
	}{
		{FormatProfscope, "[profscope] [!] slow target\n"},
		{FormatText, "level=warning msg=\"slow target\"\n"},
		{FormatJSON, `{"level":"warning","msg":"slow target"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Configure(&buf, Options{Level: "info", Format: tt.format}))
			logrus.Warn("slow target")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{FormatColor, FormatJSON, FormatProfscope, FormatText}, Formats())
}
