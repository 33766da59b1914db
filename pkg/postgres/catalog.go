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

	"github.com/lib/pq"

	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"
)

// approximateStatsQuery lists ordinary user tables with their statistics
// collector tuple counters. Tables that were never touched since the last
// stats reset have no pg_stat_all_tables row, hence the LEFT JOIN and the
// COALESCE to zero.
const approximateStatsQuery = `
	SELECT
		n.nspname,
		c.relname,
		COALESCE(s.n_live_tup, 0),
		COALESCE(s.n_dead_tup, 0)
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	LEFT JOIN pg_stat_all_tables s ON s.relid = c.oid
	WHERE c.relkind = 'r'
	  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
	  AND n.nspname NOT LIKE 'pg_toast%'
	  AND n.nspname NOT LIKE 'pg_temp_%'
`

// Catalog reads table statistics from the system catalogs and from
// pgstattuple. It implements the statistics source of the bloat pipeline.
type Catalog struct {
	DB *sql.DB
}

// NewCatalog creates a catalog reader on the given connection pool.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{DB: db}
}

// ListApproximateStats returns the statistics collector tuple counters for
// every ordinary user table. The counters are approximate and only serve
// as a cheap prefilter.
func (c *Catalog) ListApproximateStats(ctx context.Context) ([]bloat.TableStat, error) {
	rows, err := c.DB.QueryContext(ctx, approximateStatsQuery)
	if err != nil {
		return nil, fmt.Errorf("while listing table statistics: %w", err)
	}
	defer rows.Close()

	var stats []bloat.TableStat
	for rows.Next() {
		var stat bloat.TableStat
		if err := rows.Scan(
			&stat.Identity.Schema,
			&stat.Identity.Name,
			&stat.LiveTuples,
			&stat.DeadTuples,
		); err != nil {
			return nil, fmt.Errorf("while scanning table statistics: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("while listing table statistics: %w", err)
	}
	return stats, nil
}

// MeasureDeadTuplePercent runs pgstattuple against the table and returns
// the exact dead tuple percentage. This reads the whole relation, which is
// why it only runs on tables that passed the prefilter.
func (c *Catalog) MeasureDeadTuplePercent(ctx context.Context, table bloat.TableIdentity) (float64, error) {
	var percent float64
	err := c.DB.QueryRowContext(
		ctx,
		"SELECT dead_tuple_percent FROM pgstattuple($1::regclass)",
		quotedName(table),
	).Scan(&percent)
	if err != nil {
		return 0, fmt.Errorf("while measuring %s with pgstattuple: %w", table, err)
	}
	return percent, nil
}

// quotedName renders a table identity as a quoted, schema-qualified name
// safe to embed in regclass casts and utility statements.
func quotedName(table bloat.TableIdentity) string {
	return pq.QuoteIdentifier(table.Schema) + "." + pq.QuoteIdentifier(table.Name)
}
