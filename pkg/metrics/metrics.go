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


// Package metrics exports report and comparison figures in the Prometheus
// text format so CI jobs can hand them to a node exporter textfile collector.
package metrics

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Gosayram/profscope/pkg/compare"
	"github.com/Gosayram/profscope/pkg/report"
)

const namespace = "profscope"

// Collector holds the gauges of one profscope invocation.
type Collector struct {
	registry *prometheus.Registry

	reportOnce      sync.Once
	totalSeconds    *prometheus.GaugeVec
	totalCalls      *prometheus.GaugeVec
	bottlenecks     *prometheus.GaugeVec
	functionSeconds *prometheus.GaugeVec
	functionPercent *prometheus.GaugeVec

	compareOnce        sync.Once
	timeChangePercent  prometheus.Gauge
	callsChangePercent prometheus.Gauge
	newBottlenecks     prometheus.Gauge
	regression         prometheus.Gauge
}

// New creates a Collector with its own registry.
func New() *Collector {
	scriptLabel := []string{"script"}
	functionLabels := []string{"script", "function"}
	return &Collector{
		registry: prometheus.NewRegistry(),
		totalSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_seconds",
			Help:      "Wall-clock time of the profiled run.",
		}, scriptLabel),
		totalCalls: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_calls",
			Help:      "Total function calls observed in the profile.",
		}, scriptLabel),
		bottlenecks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bottlenecks",
			Help:      "Number of functions above the bottleneck threshold.",
		}, scriptLabel),
		functionSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "function_cumulative_seconds",
			Help:      "Cumulative time of each hot function.",
		}, functionLabels),
		functionPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "function_percent",
			Help:      "Share of total time spent in each hot function.",
		}, functionLabels),
		timeChangePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "time_change_percent",
			Help:      "Change of total time against the baseline.",
		}),
		callsChangePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "calls_change_percent",
			Help:      "Change of total calls against the baseline.",
		}),
		newBottlenecks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "new_bottlenecks",
			Help:      "Bottlenecks absent from the baseline.",
		}),
		regression: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "comparison",
			Name:      "regression",
			Help:      "1 when a regression was detected.",
		}),
	}
}

// Registry returns the registry the gauges are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveReport records the totals and hot functions of r.
func (c *Collector) ObserveReport(r *report.ProfileReport) {
	c.reportOnce.Do(func() {
		c.registry.MustRegister(c.totalSeconds, c.totalCalls, c.bottlenecks, c.functionSeconds, c.functionPercent)
	})
	script := r.ScriptPath
	c.totalSeconds.WithLabelValues(script).Set(r.TotalTime)
	c.totalCalls.WithLabelValues(script).Set(float64(r.TotalCalls))
	c.bottlenecks.WithLabelValues(script).Set(float64(len(r.Bottlenecks)))
	for _, f := range r.HotFunctions {
		c.functionSeconds.WithLabelValues(script, f.Name).Set(f.CumulativeTime)
		c.functionPercent.WithLabelValues(script, f.Name).Set(f.Percentage)
	}
}

// ObserveComparison records the deltas of a comparison.
func (c *Collector) ObserveComparison(res *compare.Result) {
	c.compareOnce.Do(func() {
		c.registry.MustRegister(c.timeChangePercent, c.callsChangePercent, c.newBottlenecks, c.regression)
	})
	c.timeChangePercent.Set(res.TimeChangePercent)
	c.callsChangePercent.Set(res.CallsChangePercent)
	c.newBottlenecks.Set(float64(len(res.NewBottlenecks)))
	if res.RegressionDetected {
		c.regression.Set(1)
	} else {
		c.regression.Set(0)
	}
}

// WriteFile atomically writes all gathered metrics to path.
func (c *Collector) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
