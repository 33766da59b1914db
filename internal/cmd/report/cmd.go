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

// Package report provides the "report" subcommand, a read-only view of
// the tables with the most dead tuples.
package report

import (
	"github.com/spf13/cobra"

	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/connection"
	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/env"
)

// NewCmd creates the new "report" subcommand
func NewCmd() *cobra.Command {
	var connFlags connection.Flags

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show the tables with the most dead tuples",
		Long: "Lists user tables ordered by their statistics collector dead tuple " +
			"count, together with the last vacuum and analyze times. Read-only.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			schemas, err := cmd.Flags().GetStringSlice("schema")
			if err != nil {
				return err
			}
			limit, err := cmd.Flags().GetInt("top")
			if err != nil {
				return err
			}

			return Report(ctx, connFlags.Options(), schemas, limit, output)
		},
	}

	connFlags.AddFlags(reportCmd.Flags())
	reportCmd.Flags().StringSliceP(
		"schema", "s", env.List("TARGET_SCHEMAS"),
		"Only report tables in these schemas (repeatable; default all user schemas)")
	reportCmd.Flags().Int(
		"top", env.Int("TOP_STATS_LIMIT", 10),
		"Number of tables to report")
	reportCmd.Flags().StringP(
		"output", "o", "text", "Output format. One of text|json")

	return reportCmd
}
