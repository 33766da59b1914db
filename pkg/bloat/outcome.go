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
	"fmt"
	"time"
)

// TableIdentity identifies a table for the whole lifetime of a run.
// It is produced once by the prefilter and never mutated afterwards.
type TableIdentity struct {
	// Schema is the namespace the table lives in.
	Schema string `json:"schema"`
	// Name is the bare table name.
	Name string `json:"name"`
}

// String returns the fully-qualified display name of the table.
func (t TableIdentity) String() string {
	return fmt.Sprintf("%s.%s", t.Schema, t.Name)
}

// ApproximateStat holds the statistics-based bloat estimate for a table.
// It is derived from background counters that can lag behind reality,
// which is why it only narrows the candidate set and never gates the
// maintenance action by itself.
type ApproximateStat struct {
	// LiveTuples is the estimated number of live rows.
	LiveTuples int64 `json:"liveTuples"`
	// DeadTuples is the estimated number of dead rows.
	DeadTuples int64 `json:"deadTuples"`
	// DeadPercent is 100*dead/(live+dead), 0.0 when both counters are zero.
	DeadPercent float64 `json:"deadPercent"`
}

// TableStat is one raw row returned by the statistics source: a table
// identity with its live and dead tuple counters.
type TableStat struct {
	Identity   TableIdentity
	LiveTuples int64
	DeadTuples int64
}

// Candidate is a table that passed the approximate prefilter and is
// queued for exact evaluation.
type Candidate struct {
	Identity TableIdentity   `json:"identity"`
	Approx   ApproximateStat `json:"approx"`
}

// State is the position of a candidate inside the remediation sequence.
type State string

const (
	// StatePending means no step has been issued for the candidate yet.
	StatePending State = "Pending"

	// StateStatsRefreshed means ANALYZE completed and planner statistics
	// are current.
	StateStatsRefreshed State = "StatsRefreshed"

	// StateMeasured means the exact dead-tuple percentage is known.
	StateMeasured State = "Measured"

	// StateRemediated means VACUUM (ANALYZE) completed for the candidate.
	StateRemediated State = "Remediated"

	// StateBelowThreshold means the exact measurement came in under the
	// remediation threshold and no maintenance action was taken.
	StateBelowThreshold State = "BelowThreshold"

	// StateSkippedError absorbs a candidate whose current step failed.
	StateSkippedError State = "SkippedError"
)

// Step names the remediation step that produced a failure.
type Step string

const (
	// StepRefresh is the ANALYZE statistics refresh.
	StepRefresh Step = "refresh"

	// StepMeasure is the exact pgstattuple measurement.
	StepMeasure Step = "measure"

	// StepRemediate is the VACUUM (ANALYZE) maintenance action.
	StepRemediate Step = "remediate"
)

// OutcomeKind classifies the terminal result of one candidate.
type OutcomeKind string

const (
	// OutcomeAnalyzed means statistics were refreshed and the exact
	// measurement stayed below the remediation threshold.
	OutcomeAnalyzed OutcomeKind = "Analyzed"

	// OutcomeRemediated means the maintenance action was executed.
	OutcomeRemediated OutcomeKind = "Remediated"

	// OutcomeSkippedError means a step failed and the candidate was skipped.
	OutcomeSkippedError OutcomeKind = "SkippedError"
)

// Outcome is the write-once record emitted for every candidate,
// unconditionally, success or failure.
type Outcome struct {
	Identity      TableIdentity `json:"identity"`
	ApproxPercent float64       `json:"approxPct"`
	Kind          OutcomeKind   `json:"outcomeKind"`

	// Step names the failing step when Kind is SkippedError.
	Step Step `json:"step,omitempty"`
	// Error is the human-readable description of the failure, if any.
	Error string `json:"errorMessage,omitempty"`

	// PrecisePercent is the exact dead-tuple percentage, set once the
	// measure step succeeded.
	PrecisePercent float64 `json:"precisePct,omitempty"`
	// Elapsed is the wall-clock duration of the maintenance action,
	// set only for remediated candidates.
	Elapsed time.Duration `json:"-"`
	// ElapsedSeconds mirrors Elapsed for structured output.
	ElapsedSeconds float64 `json:"elapsedSeconds,omitempty"`
}

// Summary is the immutable snapshot of the run-level counters.
type Summary struct {
	// Checked is the number of candidates processed; it always equals the
	// candidate count, even when every candidate failed.
	Checked int `json:"checked"`
	// Analyzed counts candidates measured below the remediation threshold.
	Analyzed int `json:"analyzed"`
	// Remediated counts executed maintenance actions.
	Remediated int `json:"remediated"`
	// Skipped counts candidates dropped by a step failure.
	Skipped int `json:"skipped"`
}
