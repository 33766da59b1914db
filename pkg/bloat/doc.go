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

// Package bloat implements the table-bloat remediation pipeline.
// This package selects candidate tables from cheap statistics counters,
// confirms each candidate with an exact pgstattuple measurement, and
// remediates confirmed bloat with VACUUM (ANALYZE) only.
//
// Key features:
// - Approximate prefilter over pg_stat_all_tables dead-tuple counters
// - Exact per-table measurement gating the maintenance action
// - Per-table failure isolation: one bad table never aborts the run
// - Strictly sequential processing, one candidate at a time
// - Run-level counters and structured per-candidate outcomes
// - Optional maintenance window gating runs via a cron schedule
package bloat
