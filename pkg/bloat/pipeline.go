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
	"context"
	"time"

	"github.com/cloudnative-pg/machinery/pkg/log"
)

// ActionExecutor issues maintenance commands against a single named table.
// Both commands are opaque remote calls that may fail for reasons outside
// the pipeline's control (lock contention, permissions, concurrent drops).
type ActionExecutor interface {
	// RefreshStatistics forces planner statistics for the table to be
	// current (ANALYZE).
	RefreshStatistics(ctx context.Context, table TableIdentity) error

	// ReclaimAndRefresh runs the combined space-reclaim plus statistics
	// refresh maintenance action (VACUUM (ANALYZE)).
	ReclaimAndRefresh(ctx context.Context, table TableIdentity) error
}

// OutcomeObserver receives the outcome of each candidate as soon as it is
// terminal, together with its 1-based position and the candidate total.
type OutcomeObserver func(position, total int, outcome Outcome)

// Pipeline drives the two-stage bloat remediation run: prefilter, then the
// per-table state machine, then aggregation. Processing is strictly
// sequential; concurrent maintenance actions would contend on the same
// database.
type Pipeline struct {
	Source   StatsSource
	Executor ActionExecutor
	Config   Config

	// Observer, when set, is invoked once per candidate outcome.
	Observer OutcomeObserver

	// Metrics, when set, is updated once per candidate outcome.
	Metrics *Metrics
}

// stepResult is the explicit result of one state transition. A nil result
// means the transition succeeded; otherwise it names the failing step.
// Failures are values matched at the call site, never recovered panics.
type stepResult struct {
	step Step
	err  error
}

// Run executes the whole pipeline and returns the run summary. Per-table
// failures are contained inside the per-candidate state machine; the only
// errors returned here are fatal (the statistics source is unreachable).
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	contextLogger := log.FromContext(ctx)

	candidates, err := SelectCandidates(ctx, p.Source, p.Config)
	if err != nil {
		return Summary{}, err
	}

	aggregator := NewAggregator()
	for i, candidate := range candidates {
		outcome := p.processCandidate(ctx, candidate)
		aggregator.Record(outcome)
		p.Metrics.RecordOutcome(outcome)
		if p.Observer != nil {
			p.Observer(i+1, len(candidates), outcome)
		}
	}

	summary := aggregator.Snapshot()
	contextLogger.Info("bloat remediation run completed",
		"checked", summary.Checked,
		"analyzed", summary.Analyzed,
		"remediated", summary.Remediated,
		"skipped", summary.Skipped)

	return summary, nil
}

// processCandidate walks one candidate through
// Pending → StatsRefreshed → Measured → {Remediated | BelowThreshold},
// falling into SkippedError from whichever step fails. It always returns
// exactly one outcome, so the aggregator's checked count matches the
// candidate count no matter what happens.
func (p *Pipeline) processCandidate(ctx context.Context, candidate Candidate) Outcome {
	contextLogger := log.FromContext(ctx).WithValues(
		"table", candidate.Identity.String(),
		"approxDeadPercent", candidate.Approx.DeadPercent)

	// Pending → StatsRefreshed
	if failure := p.refresh(ctx, candidate.Identity); failure != nil {
		contextLogger.Warning("statistics refresh failed, skipping table",
			"step", failure.step, "error", failure.err)
		return skippedOutcome(candidate, failure)
	}

	// StatsRefreshed → Measured
	deadPercent, failure := p.measure(ctx, candidate.Identity)
	if failure != nil {
		contextLogger.Warning("exact measurement failed, skipping table",
			"step", failure.step, "error", failure.err)
		return skippedOutcome(candidate, failure)
	}

	// Measured → BelowThreshold
	if deadPercent < p.Config.deadTuplePercentThreshold() {
		contextLogger.Debug("below remediation threshold, no action",
			"deadPercent", deadPercent)
		return Outcome{
			Identity:       candidate.Identity,
			ApproxPercent:  candidate.Approx.DeadPercent,
			Kind:           OutcomeAnalyzed,
			PrecisePercent: deadPercent,
		}
	}

	// Measured → Remediated
	elapsed, failure := p.remediate(ctx, candidate.Identity)
	if failure != nil {
		contextLogger.Warning("maintenance action failed, skipping table",
			"step", failure.step, "error", failure.err)
		outcome := skippedOutcome(candidate, failure)
		outcome.PrecisePercent = deadPercent
		return outcome
	}

	contextLogger.Info("table remediated",
		"deadPercent", deadPercent,
		"elapsed", elapsed)
	return Outcome{
		Identity:       candidate.Identity,
		ApproxPercent:  candidate.Approx.DeadPercent,
		Kind:           OutcomeRemediated,
		PrecisePercent: deadPercent,
		Elapsed:        elapsed,
		ElapsedSeconds: elapsed.Seconds(),
	}
}

func (p *Pipeline) refresh(ctx context.Context, table TableIdentity) *stepResult {
	stepCtx, cancel := context.WithTimeout(ctx, p.Config.callTimeout())
	defer cancel()

	if err := p.Executor.RefreshStatistics(stepCtx, table); err != nil {
		return &stepResult{step: StepRefresh, err: err}
	}
	return nil
}

func (p *Pipeline) measure(ctx context.Context, table TableIdentity) (float64, *stepResult) {
	stepCtx, cancel := context.WithTimeout(ctx, p.Config.callTimeout())
	defer cancel()

	deadPercent, err := p.Source.MeasureDeadTuplePercent(stepCtx, table)
	if err != nil {
		return 0, &stepResult{step: StepMeasure, err: err}
	}
	return deadPercent, nil
}

func (p *Pipeline) remediate(ctx context.Context, table TableIdentity) (time.Duration, *stepResult) {
	stepCtx, cancel := context.WithTimeout(ctx, p.Config.callTimeout())
	defer cancel()

	start := time.Now()
	if err := p.Executor.ReclaimAndRefresh(stepCtx, table); err != nil {
		return 0, &stepResult{step: StepRemediate, err: err}
	}
	return time.Since(start), nil
}

func skippedOutcome(candidate Candidate, failure *stepResult) Outcome {
	return Outcome{
		Identity:      candidate.Identity,
		ApproxPercent: candidate.Approx.DeadPercent,
		Kind:          OutcomeSkippedError,
		Step:          failure.step,
		Error:         failure.err.Error(),
	}
}
