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

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/logrusorgru/aurora/v4"

	"github.com/rashidov9797/PgSmartVacuum/pkg/postgres"
)

// Report implements the "report" subcommand
func Report(
	ctx context.Context,
	options postgres.ConnectionOptions,
	schemas []string,
	limit int,
	output string,
) error {
	db, err := postgres.Connect(ctx, options)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	stats, err := postgres.NewCatalog(db).TopDeadTuples(ctx, schemas, limit)
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	PrintTable(stats)
	return nil
}

// PrintTable renders the dead tuple report as a table on standard output.
func PrintTable(stats []postgres.TopDeadTupleStat) {
	if len(stats) == 0 {
		fmt.Println(aurora.Yellow("No user tables found"))
		return
	}

	fmt.Println(aurora.Bold("Tables with the most dead tuples:"))

	t := tabby.New()
	t.AddHeader("TABLE", "LIVE", "DEAD", "DEAD%", "LAST VACUUM", "LAST AUTOVACUUM", "LAST ANALYZE", "LAST AUTOANALYZE")
	for _, stat := range stats {
		t.AddLine(
			stat.Identity.String(),
			stat.LiveTuples,
			stat.DeadTuples,
			fmt.Sprintf("%.2f", stat.DeadPercent()),
			formatMaintenanceTime(stat.LastVacuum),
			formatMaintenanceTime(stat.LastAutovacuum),
			formatMaintenanceTime(stat.LastAnalyze),
			formatMaintenanceTime(stat.LastAutoanalyze),
		)
	}
	t.Print()
}

func formatMaintenanceTime(value *time.Time) string {
	if value == nil {
		return "never"
	}
	return value.Format("2006-01-02T15:04:05Z07:00")
}
