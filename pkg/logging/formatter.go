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
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const prefix = "[profscope]"

// Formatter prints entries as "[profscope] message key=value". Warnings and
// errors carry a marker matching the report output.
type Formatter struct {
	ShowTimestamp bool
}

// Format formats a log entry
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var output strings.Builder

	if f.ShowTimestamp {
		output.WriteString(entry.Time.Format("15:04:05"))
		output.WriteString(" ")
	}

	output.WriteString(prefix)
	if marker := levelMarker(entry.Level); marker != "" {
		output.WriteString(" ")
		output.WriteString(marker)
	}
	output.WriteString(" ")
	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			output.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
		}
	}

	output.WriteString("\n")
	return []byte(output.String()), nil
}

func levelMarker(level logrus.Level) string {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "[X]"
	case logrus.WarnLevel:
		return "[!]"
	case logrus.DebugLevel, logrus.TraceLevel:
		return "[debug]"
	default:
		return ""
	}
}
