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

package run

import (
	"fmt"

	"github.com/cheynewallace/tabby"
	"github.com/logrusorgru/aurora/v4"

	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"
)

// printOutcome renders the progress line of one processed candidate.
func printOutcome(position, total int, outcome bloat.Outcome) {
	prefix := fmt.Sprintf("[%d/%d] %s (approx %.2f%%)",
		position, total, outcome.Identity, outcome.ApproxPercent)

	switch outcome.Kind {
	case bloat.OutcomeRemediated:
		fmt.Printf("%s %s exact %.2f%%, vacuumed in %.1fs\n",
			prefix, aurora.Green("vacuumed:"),
			outcome.PrecisePercent, outcome.ElapsedSeconds)
	case bloat.OutcomeAnalyzed:
		fmt.Printf("%s %s exact %.2f%% below threshold\n",
			prefix, aurora.Yellow("analyzed only:"), outcome.PrecisePercent)
	case bloat.OutcomeSkippedError:
		fmt.Printf("%s %s %s failed: %s\n",
			prefix, aurora.Red("skipped:"), outcome.Step, outcome.Error)
	}
}

// printSummary renders the run summary table.
func printSummary(summary bloat.Summary) {
	fmt.Println()
	fmt.Println(aurora.Bold("Run summary:"))

	t := tabby.New()
	t.AddLine("Checked", summary.Checked)
	t.AddLine("Analyzed only", summary.Analyzed)
	t.AddLine("Vacuumed", summary.Remediated)
	t.AddLine("Skipped on error", summary.Skipped)
	t.Print()
}
