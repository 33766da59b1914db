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

import (
	"time"

	"github.com/cloudnative-pg/machinery/pkg/log"
	"github.com/robfig/cron"
)

var (
	// DefaultWindowDuration is the default duration of maintenance windows.
	DefaultWindowDuration = 2 * time.Hour

	// cronParser is the parser for maintenance window schedules. It uses the
	// 6-field cron format (second, minute, hour, day of month, month, day of
	// week).
	cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
)

// MaintenanceWindow optionally confines runs to a recurring time window.
// The zero value means no window is configured and the run may start at
// any time.
type MaintenanceWindow struct {
	// Schedule is a 6-field cron expression marking window starts.
	Schedule string

	// Duration is how long each window stays open, for example "2h".
	Duration string

	// Timezone is an IANA timezone name; empty means UTC.
	Timezone string
}

// IsOpen checks if the current time is within the maintenance window.
func (w MaintenanceWindow) IsOpen() bool {
	if w.Schedule == "" {
		// No maintenance window configured = always open
		return true
	}

	cronSchedule, err := cronParser.Parse(w.Schedule)
	if err != nil {
		log.Warning("Failed to parse maintenance window cron schedule, treating window as closed",
			"schedule", w.Schedule,
			"error", err)
		return false
	}

	now := time.Now().In(w.location())

	// Only starts within the last window duration can still be open, so
	// that is as far back as we need to look.
	windowStart := findMostRecentWindowStart(cronSchedule, now, w.duration())
	if windowStart.IsZero() {
		return false
	}

	windowEnd := windowStart.Add(w.duration())
	return now.After(windowStart) && now.Before(windowEnd)
}

// Next returns the next window start time, or nil when no window is
// configured or the schedule cannot produce one.
func (w MaintenanceWindow) Next() *time.Time {
	if w.Schedule == "" {
		return nil
	}

	cronSchedule, err := cronParser.Parse(w.Schedule)
	if err != nil {
		log.Warning("Failed to parse maintenance window cron schedule for next window calculation",
			"schedule", w.Schedule,
			"error", err)
		return nil
	}

	now := time.Now().In(w.location())
	next := cronSchedule.Next(now)
	if next.IsZero() {
		return nil
	}
	return &next
}

func (w MaintenanceWindow) location() *time.Location {
	if w.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		log.Warning("Failed to parse maintenance window timezone, falling back to UTC",
			"timezone", w.Timezone,
			"error", err)
		return time.UTC
	}
	return loc
}

func (w MaintenanceWindow) duration() time.Duration {
	if w.Duration == "" {
		return DefaultWindowDuration
	}
	parsed, err := time.ParseDuration(w.Duration)
	if err != nil {
		log.Warning("Failed to parse maintenance window duration, falling back to default",
			"duration", w.Duration,
			"default", DefaultWindowDuration,
			"error", err)
		return DefaultWindowDuration
	}
	return parsed
}

// findMostRecentWindowStart finds the most recent window start within the
// lookback period.
func findMostRecentWindowStart(schedule cron.Schedule, now time.Time, lookback time.Duration) time.Time {
	checkTime := now.Add(-lookback)

	// Bounded iterations guard against cron expressions that never fire
	// (like Feb 31st) or never advance.
	const maxIterations = 1000

	var lastStart time.Time
	for i := 0; i < maxIterations; i++ {
		nextStart := schedule.Next(checkTime)
		if nextStart.After(now) {
			break
		}
		if !nextStart.After(checkTime) {
			break
		}
		lastStart = nextStart
		checkTime = nextStart.Add(time.Minute)
	}

	return lastStart
}
