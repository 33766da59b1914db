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

// Package run provides the "run" subcommand, one full audit and
// remediation pass over the connected database.
package run

import (
	"github.com/spf13/cobra"

	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/connection"
	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/env"
	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"
)

// Options collects everything the "run" subcommand needs.
type Options struct {
	Connection connection.Flags
	Bloat      bloat.Config
	Window     bloat.MaintenanceWindow

	// TopLimit is the size of the pre-run dead tuple report, zero
	// disables the report.
	TopLimit int

	// MetricsFile, when set, receives the run metrics in the Prometheus
	// text exposition format (node_exporter textfile collector layout).
	MetricsFile string

	// Output is the output format, "text" or "json".
	Output string
}

// NewCmd creates the new "run" subcommand
func NewCmd() *cobra.Command {
	var options Options

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Audit table bloat and vacuum what needs it",
		Long: "Selects candidate tables from the statistics collector counters, " +
			"measures each one exactly with pgstattuple, and runs VACUUM (ANALYZE) " +
			"on the tables whose dead tuple percentage is at or above the threshold.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), options)
		},
	}

	options.Connection.AddFlags(runCmd.Flags())
	runCmd.Flags().Float64Var(
		&options.Bloat.PrefilterDeadPercent, "prefilter-dead-pct",
		env.Float("APPROX_PREFILTER_DEAD_PCT", bloat.DefaultPrefilterDeadPercent),
		"Approximate dead tuple percentage a table needs to become a candidate")
	runCmd.Flags().Float64Var(
		&options.Bloat.DeadTuplePercentThreshold, "dead-pct-threshold",
		env.Float("DEAD_TUPLE_PERCENT_THRESHOLD", bloat.DefaultDeadTuplePercentThreshold),
		"Exact dead tuple percentage at or above which a table is vacuumed")
	runCmd.Flags().IntVar(
		&options.Bloat.MaxTables, "max-tables",
		env.Int("MAX_TABLES_TO_CHECK", bloat.DefaultMaxTables),
		"Maximum number of candidate tables to process in one run")
	runCmd.Flags().StringSliceVarP(
		&options.Bloat.Schemas, "schema", "s", env.List("TARGET_SCHEMAS"),
		"Only consider tables in these schemas (repeatable; default all user schemas)")
	runCmd.Flags().DurationVar(
		&options.Bloat.CallTimeout, "call-timeout",
		env.Milliseconds("CALL_TIMEOUT_MS", bloat.DefaultCallTimeout),
		"Client side bound on each per-table call; raise it together with "+
			"--statement-timeout-ms for very large tables")
	runCmd.Flags().IntVar(
		&options.TopLimit, "top",
		env.Int("TOP_STATS_LIMIT", 10),
		"Size of the pre-run dead tuple report, 0 to disable")
	runCmd.Flags().StringVar(
		&options.Window.Schedule, "window-schedule", "",
		"Six field cron expression marking maintenance window starts (default always open)")
	runCmd.Flags().StringVar(
		&options.Window.Duration, "window-duration", "",
		"How long each maintenance window stays open, for example 2h")
	runCmd.Flags().StringVar(
		&options.Window.Timezone, "window-timezone", "",
		"IANA timezone of the maintenance window (default UTC)")
	runCmd.Flags().StringVar(
		&options.MetricsFile, "metrics-file", "",
		"Write run metrics to this file in the Prometheus text format")
	runCmd.Flags().StringVarP(
		&options.Output, "output", "o", "text",
		"Output format. One of text|json")

	return runCmd
}
