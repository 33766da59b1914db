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

// Package postgres is the PostgreSQL access layer of pgsmartvacuum.
//
// It provides:
//
//   - connection establishment with retried pings and per-session safety
//     timeouts (lock_timeout, statement_timeout,
//     idle_in_transaction_session_timeout)
//   - the catalog statistics source backing the bloat prefilter
//     (pg_stat_all_tables counters) and the exact dead-tuple measurement
//     (pgstattuple)
//   - the maintenance executor issuing ANALYZE and VACUUM (ANALYZE)
//   - the pgstattuple extension precondition check
//   - the top dead-tuple report used before a run starts
//
// Everything goes through database/sql on the pgx stdlib driver, which
// keeps the layer mockable with go-sqlmock.
package postgres
