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

	"github.com/cloudnative-pg/machinery/pkg/log"

	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"
)

// Maintainer executes maintenance actions against individual tables. It
// implements the action executor of the bloat pipeline.
//
// ANALYZE and VACUUM are utility statements and cannot take bind
// parameters, so table names are embedded after identifier quoting.
type Maintainer struct {
	DB *sql.DB
}

// NewMaintainer creates a maintenance executor on the given connection pool.
func NewMaintainer(db *sql.DB) *Maintainer {
	return &Maintainer{DB: db}
}

// RefreshStatistics runs ANALYZE on the table so the subsequent exact
// measurement and the planner see current statistics.
func (m *Maintainer) RefreshStatistics(ctx context.Context, table bloat.TableIdentity) error {
	log.FromContext(ctx).Debug("Refreshing statistics", "table", table.String())

	statement := fmt.Sprintf("ANALYZE %s", quotedName(table))
	if _, err := m.DB.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("while analyzing %s: %w", table, err)
	}
	return nil
}

// ReclaimAndRefresh runs VACUUM (ANALYZE) on the table, reclaiming dead
// tuple space and leaving refreshed statistics behind.
func (m *Maintainer) ReclaimAndRefresh(ctx context.Context, table bloat.TableIdentity) error {
	log.FromContext(ctx).Debug("Vacuuming", "table", table.String())

	statement := fmt.Sprintf("VACUUM (ANALYZE) %s", quotedName(table))
	if _, err := m.DB.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("while vacuuming %s: %w", table, err)
	}
	return nil
}
