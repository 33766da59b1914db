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
	"fmt"
	"sort"

	"github.com/cloudnative-pg/machinery/pkg/log"
	"github.com/thoas/go-funk"
)

// StatsSource is the read side of the statistics catalog the pipeline
// depends on. Implementations query pg_stat_all_tables counters and the
// pgstattuple extension.
type StatsSource interface {
	// ListApproximateStats returns live/dead tuple counters for every
	// ordinary table outside system schemas.
	ListApproximateStats(ctx context.Context) ([]TableStat, error)

	// MeasureDeadTuplePercent returns the exact dead-tuple percentage for
	// one table via a full or sampled scan.
	MeasureDeadTuplePercent(ctx context.Context, table TableIdentity) (float64, error)
}

// ComputeDeadPercent returns the approximate dead-tuple percentage for a
// pair of counters: 100*dead/(live+dead), defined as 0.0 when both are zero.
func ComputeDeadPercent(liveTuples, deadTuples int64) float64 {
	total := liveTuples + deadTuples
	if total == 0 {
		return 0.0
	}
	return float64(deadTuples) * 100.0 / float64(total)
}

// SelectCandidates runs the approximate prefilter: it ranks every eligible
// table by its counter-based dead-tuple percentage, keeps those at or above
// the configured floor, optionally restricts to the configured schema set,
// sorts by descending percentage and truncates to the configured cap.
//
// An empty result is a valid terminal outcome for the run. The only failure
// mode is an unreachable statistics source, which is fatal to the caller.
func SelectCandidates(ctx context.Context, source StatsSource, cfg Config) ([]Candidate, error) {
	contextLogger := log.FromContext(ctx)

	listCtx, cancel := context.WithTimeout(ctx, cfg.callTimeout())
	defer cancel()

	stats, err := source.ListApproximateStats(listCtx)
	if err != nil {
		return nil, fmt.Errorf("while listing approximate table statistics: %w", err)
	}

	floor := cfg.prefilterDeadPercent()
	candidates := make([]Candidate, 0, len(stats))
	for _, stat := range stats {
		if len(cfg.Schemas) > 0 && !funk.ContainsString(cfg.Schemas, stat.Identity.Schema) {
			continue
		}

		deadPercent := ComputeDeadPercent(stat.LiveTuples, stat.DeadTuples)
		if deadPercent < floor {
			continue
		}

		candidates = append(candidates, Candidate{
			Identity: stat.Identity,
			Approx: ApproximateStat{
				LiveTuples:  stat.LiveTuples,
				DeadTuples:  stat.DeadTuples,
				DeadPercent: deadPercent,
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Approx.DeadPercent > candidates[j].Approx.DeadPercent
	})

	if limit := cfg.maxTables(); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	contextLogger.Debug("candidate prefilter completed",
		"tablesSeen", len(stats),
		"candidates", len(candidates),
		"floor", floor)

	return candidates, nil
}
