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

// Aggregator accumulates per-table outcomes into run-level counters.
// Counters only ever grow; there is no reset mid-run. It is not safe for
// concurrent use and does not need to be: the remediation loop is strictly
// sequential.
type Aggregator struct {
	summary Summary
}

// NewAggregator returns an aggregator with all counters seeded to zero.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record folds one outcome into the counters: checked always increments,
// and exactly one of analyzed/remediated/skipped increments with it.
func (a *Aggregator) Record(outcome Outcome) {
	a.summary.Checked++
	switch outcome.Kind {
	case OutcomeAnalyzed:
		a.summary.Analyzed++
	case OutcomeRemediated:
		a.summary.Remediated++
	case OutcomeSkippedError:
		a.summary.Skipped++
	}
}

// Snapshot returns the current counters as an immutable value.
func (a *Aggregator) Snapshot() Summary {
	return a.summary
}
