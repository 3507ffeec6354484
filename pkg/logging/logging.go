/*
Copyright 2020 Google LLC

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

// Package logging configures logrus for profscope. Log output always goes to
// the command's stderr; reports are written to stdout and must stay clean.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultLevel is the log level used when none is given
	DefaultLevel = "info"
	// DefaultLogTimestamp controls whether log lines carry a timestamp
	DefaultLogTimestamp = false

	// FormatText is plain logrus text output without colors
	FormatText = "text"
	// FormatColor is logrus text output with ANSI colors
	FormatColor = "color"
	// FormatJSON emits one JSON object per line
	FormatJSON = "json"
	// FormatProfscope is the compact "[profscope] message" format
	FormatProfscope = "profscope"
)

// Options select how log lines look
type Options struct {
	Level     string
	Format    string
	Timestamp bool
}

var formatters = map[string]func(timestamp bool) logrus.Formatter{
	FormatText: func(timestamp bool) logrus.Formatter {
		return &logrus.TextFormatter{DisableColors: true, FullTimestamp: timestamp, DisableTimestamp: !timestamp}
	},
	FormatColor: func(timestamp bool) logrus.Formatter {
		return &logrus.TextFormatter{ForceColors: true, FullTimestamp: timestamp, DisableTimestamp: !timestamp}
	},
	FormatJSON: func(timestamp bool) logrus.Formatter {
		return &logrus.JSONFormatter{DisableTimestamp: !timestamp}
	},
	FormatProfscope: func(timestamp bool) logrus.Formatter {
		return &Formatter{ShowTimestamp: timestamp}
	},
}

// Formats returns the accepted log format names in sorted order
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configure points the standard logger at w and applies o. Nothing changes
// when o is invalid.
func Configure(w io.Writer, o Options) error {
	lvl, err := logrus.ParseLevel(o.Level)
	if err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	newFormatter, ok := formatters[o.Format]
	if !ok {
		return fmt.Errorf("not a valid log format: %q, expected one of (%s)",
			o.Format, strings.Join(Formats(), ", "))
	}

	logrus.SetOutput(w)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(newFormatter(o.Timestamp))
	return nil
}
