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
	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Metrics", func() {
	var metrics *Metrics

	BeforeEach(func() {
		metrics = NewMetrics()
	})

	It("registers every collector with a registry", func() {
		registry := prometheus.NewRegistry()
		Expect(metrics.Register(registry)).To(Succeed())

		metrics.TablesChecked.Inc()
		families, err := registry.Gather()
		Expect(err).ToNot(HaveOccurred())
		Expect(families).ToNot(BeEmpty())
	})

	It("fails to register twice on the same registry", func() {
		registry := prometheus.NewRegistry()
		Expect(metrics.Register(registry)).To(Succeed())
		Expect(metrics.Register(registry)).ToNot(Succeed())
	})

	It("counts one checked table per outcome", func() {
		metrics.RecordOutcome(Outcome{Kind: OutcomeAnalyzed})
		metrics.RecordOutcome(Outcome{Kind: OutcomeRemediated})
		metrics.RecordOutcome(Outcome{Kind: OutcomeSkippedError, Step: StepMeasure})

		Expect(testutil.ToFloat64(metrics.TablesChecked)).To(Equal(3.0))
		Expect(testutil.ToFloat64(metrics.TablesAnalyzed)).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.TablesRemediated)).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.TablesSkipped.WithLabelValues(string(StepMeasure)))).To(Equal(1.0))
	})

	It("tracks remediation wall-clock time", func() {
		metrics.RecordOutcome(Outcome{Kind: OutcomeRemediated, Elapsed: 3 * time.Second})
		metrics.RecordOutcome(Outcome{Kind: OutcomeRemediated, Elapsed: 2 * time.Second})

		Expect(testutil.ToFloat64(metrics.RemediationSeconds)).To(Equal(5.0))
		Expect(testutil.ToFloat64(metrics.LastRemediationSeconds)).To(Equal(2.0))

		metrics.RecordRunDuration(42 * time.Second)
		Expect(testutil.ToFloat64(metrics.RunDurationSeconds)).To(Equal(42.0))
	})

	It("ignores outcomes on a nil receiver", func() {
		var unset *Metrics
		Expect(func() {
			unset.RecordOutcome(Outcome{Kind: OutcomeRemediated})
		}).ToNot(Panic())
	})
})
