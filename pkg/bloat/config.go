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

package bloat

import "time"

const (
	// DefaultPrefilterDeadPercent is the default approximate dead-tuple
	// percentage a table must reach to become a candidate.
	DefaultPrefilterDeadPercent = 1.0

	// DefaultDeadTuplePercentThreshold is the default exact dead-tuple
	// percentage (pgstattuple) that triggers remediation.
	DefaultDeadTuplePercentThreshold = 2.0

	// DefaultMaxTables is the default cap on the candidate list length.
	DefaultMaxTables = 200

	// DefaultCallTimeout bounds any single statistics-source call.
	DefaultCallTimeout = 10 * time.Minute
)

// Config carries the run-level tuning knobs of the pipeline. It is built
// once at startup and passed by value; the pipeline never mutates it and
// keeps no ambient global state.
//
// PrefilterDeadPercent and DeadTuplePercentThreshold are deliberately
// independent values: the first compares against a stale, counter-based
// estimate, the second against an exact scan-based measurement.
type Config struct {
	// PrefilterDeadPercent is the approximate-ratio floor for candidates.
	PrefilterDeadPercent float64

	// DeadTuplePercentThreshold is the exact-ratio remediation threshold.
	DeadTuplePercentThreshold float64

	// MaxTables caps how many candidates one run may evaluate.
	MaxTables int

	// Schemas optionally restricts candidates to the given schema names.
	// Empty means all user schemas.
	Schemas []string

	// CallTimeout bounds each individual statistics-source call. A call
	// exceeding it is treated as a failure of the step that issued it.
	CallTimeout time.Duration
}

func (c Config) prefilterDeadPercent() float64 {
	if c.PrefilterDeadPercent <= 0 {
		return DefaultPrefilterDeadPercent
	}
	return c.PrefilterDeadPercent
}

func (c Config) deadTuplePercentThreshold() float64 {
	if c.DeadTuplePercentThreshold <= 0 {
		return DefaultDeadTuplePercentThreshold
	}
	return c.DeadTuplePercentThreshold
}

func (c Config) maxTables() int {
	if c.MaxTables <= 0 {
		return DefaultMaxTables
	}
	return c.MaxTables
}

func (c Config) callTimeout() time.Duration {
	if c.CallTimeout <= 0 {
		return DefaultCallTimeout
	}
	return c.CallTimeout
}
