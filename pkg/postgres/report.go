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

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thoas/go-funk"

	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"
)

// topDeadTuplesQuery lists user tables ordered by dead tuple count,
// together with the last time each table was vacuumed and analyzed.
const topDeadTuplesQuery = `
	SELECT
		n.nspname,
		c.relname,
		COALESCE(s.n_live_tup, 0),
		COALESCE(s.n_dead_tup, 0),
		s.last_vacuum,
		s.last_autovacuum,
		s.last_analyze,
		s.last_autoanalyze
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	LEFT JOIN pg_stat_all_tables s ON s.relid = c.oid
	WHERE c.relkind = 'r'
	  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
	  AND n.nspname NOT LIKE 'pg_toast%'
	  AND n.nspname NOT LIKE 'pg_temp_%'
	ORDER BY COALESCE(s.n_dead_tup, 0) DESC
`

// TopDeadTupleStat is one row of the pre-run dead tuple report.
type TopDeadTupleStat struct {
	Identity   bloat.TableIdentity `json:"identity"`
	LiveTuples int64               `json:"liveTuples"`
	DeadTuples int64               `json:"deadTuples"`

	// Maintenance timestamps, nil when the action never ran since the
	// last statistics reset.
	LastVacuum      *time.Time `json:"lastVacuum,omitempty"`
	LastAutovacuum  *time.Time `json:"lastAutovacuum,omitempty"`
	LastAnalyze     *time.Time `json:"lastAnalyze,omitempty"`
	LastAutoanalyze *time.Time `json:"lastAutoanalyze,omitempty"`
}

// DeadPercent returns the approximate dead tuple percentage of the row.
func (s TopDeadTupleStat) DeadPercent() float64 {
	return bloat.ComputeDeadPercent(s.LiveTuples, s.DeadTuples)
}

// TopDeadTuples returns the tables with the most dead tuples according to
// the statistics collector, at most limit rows. When schemas is non-empty
// only tables in those schemas are reported.
func (c *Catalog) TopDeadTuples(ctx context.Context, schemas []string, limit int) ([]TopDeadTupleStat, error) {
	rows, err := c.DB.QueryContext(ctx, topDeadTuplesQuery)
	if err != nil {
		return nil, fmt.Errorf("while listing top dead tuple tables: %w", err)
	}
	defer rows.Close()

	var stats []TopDeadTupleStat
	for rows.Next() {
		var stat TopDeadTupleStat
		var lastVacuum, lastAutovacuum, lastAnalyze, lastAutoanalyze sql.NullTime

		if err := rows.Scan(
			&stat.Identity.Schema,
			&stat.Identity.Name,
			&stat.LiveTuples,
			&stat.DeadTuples,
			&lastVacuum,
			&lastAutovacuum,
			&lastAnalyze,
			&lastAutoanalyze,
		); err != nil {
			return nil, fmt.Errorf("while scanning top dead tuple tables: %w", err)
		}

		if len(schemas) > 0 && !funk.ContainsString(schemas, stat.Identity.Schema) {
			continue
		}

		if lastVacuum.Valid {
			stat.LastVacuum = &lastVacuum.Time
		}
		if lastAutovacuum.Valid {
			stat.LastAutovacuum = &lastAutovacuum.Time
		}
		if lastAnalyze.Valid {
			stat.LastAnalyze = &lastAnalyze.Time
		}
		if lastAutoanalyze.Valid {
			stat.LastAutoanalyze = &lastAutoanalyze.Time
		}

		stats = append(stats, stat)
		if limit > 0 && len(stats) >= limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("while listing top dead tuple tables: %w", err)
	}
	return stats, nil
}
