/*
Copyright © contributors to CloudNativePG, established as
CloudNativePG a Series of LF Projects, LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.

SPDX-License-Identifier: Apache-2.0
*/

package bloat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "pgsmartvacuum"
	subsystem = "run"
)

// Metrics contains the Prometheus metrics of one remediation run. The tool
// is a one-shot process, so these are meant to be gathered at run end and
// written out textfile-collector style.
type Metrics struct {
	// Outcome counters
	TablesChecked    prometheus.Counter
	TablesAnalyzed   prometheus.Counter
	TablesRemediated prometheus.Counter
	TablesSkipped    *prometheus.CounterVec

	// Remediation timing
	RemediationSeconds     prometheus.Counter
	LastRemediationSeconds prometheus.Gauge

	// RunDurationSeconds is the wall-clock duration of the whole run.
	RunDurationSeconds prometheus.Gauge
}

// NewMetrics creates the run metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		TablesChecked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tables_checked_total",
				Help:      "Number of candidate tables processed",
			},
		),
		TablesAnalyzed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tables_analyzed_total",
				Help:      "Number of tables measured below the remediation threshold",
			},
		),
		TablesRemediated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tables_remediated_total",
				Help:      "Number of VACUUM (ANALYZE) actions executed",
			},
		),
		TablesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tables_skipped_total",
				Help:      "Number of tables skipped by a step failure",
			},
			[]string{"step"},
		),
		RemediationSeconds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "remediation_seconds_total",
				Help:      "Cumulative wall-clock time spent in maintenance actions",
			},
		),
		LastRemediationSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_remediation_seconds",
				Help:      "Wall-clock duration of the most recent maintenance action",
			},
		),
		RunDurationSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Wall-clock duration of the whole run",
			},
		),
	}
}

// Register registers all metrics with the provided registry.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.TablesChecked,
		m.TablesAnalyzed,
		m.TablesRemediated,
		m.TablesSkipped,
		m.RemediationSeconds,
		m.LastRemediationSeconds,
		m.RunDurationSeconds,
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordOutcome updates metrics from one candidate outcome. A nil receiver
// is a no-op so the pipeline can run without metrics wired.
func (m *Metrics) RecordOutcome(outcome Outcome) {
	if m == nil {
		return
	}

	m.TablesChecked.Inc()
	switch outcome.Kind {
	case OutcomeAnalyzed:
		m.TablesAnalyzed.Inc()
	case OutcomeRemediated:
		m.TablesRemediated.Inc()
		m.RemediationSeconds.Add(outcome.Elapsed.Seconds())
		m.LastRemediationSeconds.Set(outcome.Elapsed.Seconds())
	case OutcomeSkippedError:
		m.TablesSkipped.WithLabelValues(string(outcome.Step)).Inc()
	}
}

// RecordRunDuration sets the run duration gauge. A nil receiver is a no-op.
func (m *Metrics) RecordRunDuration(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunDurationSeconds.Set(elapsed.Seconds())
}
