/*
Copyright 2025 Google LLC

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

// Package timing records how long each profscope phase takes.
package timing

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Tracker accumulates named phase durations
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	phases    map[string]time.Duration
	order     []string

	now func() time.Time
}

// Timer measures one phase; Stop records it on the tracker that started it
type Timer struct {
	tracker *Tracker
	name    string
	start   time.Time
}

// DefaultRun is the tracker used by the package level functions
var DefaultRun = NewTracker()

// NewTracker creates and initializes a new tracker
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		phases:    make(map[string]time.Duration),
		now:       time.Now,
	}
}

// Start begins timing the named phase
func (t *Tracker) Start(name string) *Timer {
	return &Timer{tracker: t, name: name, start: t.now()}
}

// Stop records the elapsed time of the phase and returns it
func (tm *Timer) Stop() time.Duration {
	elapsed := tm.tracker.now().Sub(tm.start)
	tm.tracker.Record(tm.name, elapsed)
	return elapsed
}

// Record adds d to the named phase
func (t *Tracker) Record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.phases[name]; !ok {
		t.order = append(t.order, name)
	}
	t.phases[name] += d
}

// Phases returns a copy of the recorded phase durations
func (t *Tracker) Phases() map[string]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]time.Duration, len(t.phases))
	for k, v := range t.phases {
		out[k] = v
	}
	return out
}

// Summary renders the phases in the order they were first recorded
func (t *Tracker) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Total execution time: %v", t.now().Sub(t.startTime))
	for _, name := range t.order {
		fmt.Fprintf(&b, "\n%s: %v", name, t.phases[name])
	}
	return b.String()
}

// JSON renders the phases as a JSON object of name to nanoseconds
func (t *Tracker) JSON() (string, error) {
	t.mu.Lock()
	names := make([]string, 0, len(t.phases))
	for name := range t.phases {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]int64, len(names))
	for _, name := range names {
		out[name] = int64(t.phases[name])
	}
	t.mu.Unlock()

	b, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "encoding timings")
	}
	return string(b), nil
}

// Start begins timing the named phase on DefaultRun
func Start(name string) *Timer {
	return DefaultRun.Start(name)
}

// Summary renders DefaultRun's phases
func Summary() string {
	return DefaultRun.Summary()
}

// JSON renders DefaultRun's phases as JSON
func JSON() (string, error) {
	return DefaultRun.JSON()
}
