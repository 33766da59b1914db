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

// Package exitcode maps run errors to process exit codes, so wrapping
// scripts and schedulers can tell fatal condition classes apart.
package exitcode

import (
	"errors"

	"github.com/rashidov9797/PgSmartVacuum/pkg/postgres"
)

const (
	// OK means the run completed, table level failures included.
	OK = 0

	// RunFailed means the run aborted for a reason that has no dedicated
	// code, like an unreachable statistics catalog mid-run.
	RunFailed = 1

	// ConnectionFailed means the target database could not be reached.
	ConnectionFailed = 2

	// ExtensionMissing means pgstattuple is unavailable and could not be
	// installed.
	ExtensionMissing = 3
)

// FromError returns the process exit code for the given run error.
func FromError(err error) int {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, postgres.ErrConnectionUnavailable):
		return ConnectionFailed
	case errors.Is(err, postgres.ErrExtensionMissing):
		return ExtensionMissing
	default:
		return RunFailed
	}
}
