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

// pgsmartvacuum audits PostgreSQL tables for row level bloat and vacuums
// the ones that need it.
package main

import (
	"fmt"
	"os"

	"github.com/cloudnative-pg/machinery/pkg/log"
	"github.com/spf13/cobra"

	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/exitcode"
	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/report"
	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/run"
)

func main() {
	logFlags := &log.Flags{}

	rootCmd := &cobra.Command{
		Use:           "pgsmartvacuum",
		Short:         "PostgreSQL table bloat audit and remediation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logFlags.ConfigureLogging()
		},
	}

	logFlags.AddFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(run.NewCmd())
	rootCmd.AddCommand(report.NewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitcode.FromError(err))
	}
}
