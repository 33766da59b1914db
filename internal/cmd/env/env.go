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

// Package env resolves flag defaults from environment variables, keeping
// the tool configurable from both the command line and the environment.
// Connection settings are not handled here: the libpq variables (PGHOST,
// PGPORT, PGDATABASE, PGUSER, PGPASSWORD) are honored by the driver
// whenever the corresponding flag is left empty.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudnative-pg/machinery/pkg/log"
)

// String returns the value of the environment variable when set, the
// fallback otherwise.
func String(key, fallback string) string {
	if value, found := os.LookupEnv(key); found {
		return value
	}
	return fallback
}

// List returns the comma separated items of the environment variable when
// set, nil otherwise. Blank items are dropped.
func List(key string) []string {
	raw, found := os.LookupEnv(key)
	if !found {
		return nil
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Float returns the value of the environment variable when set and
// parseable, the fallback otherwise.
func Float(key string, fallback float64) float64 {
	raw, found := os.LookupEnv(key)
	if !found {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warning("Ignoring unparseable environment variable",
			"name", key,
			"value", raw,
			"error", err)
		return fallback
	}
	return value
}

// Int returns the value of the environment variable when set and
// parseable, the fallback otherwise.
func Int(key string, fallback int) int {
	raw, found := os.LookupEnv(key)
	if !found {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warning("Ignoring unparseable environment variable",
			"name", key,
			"value", raw,
			"error", err)
		return fallback
	}
	return value
}

// Milliseconds returns the value of the environment variable interpreted
// as a millisecond count when set and parseable, the fallback otherwise.
func Milliseconds(key string, fallback time.Duration) time.Duration {
	raw, found := os.LookupEnv(key)
	if !found {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warning("Ignoring unparseable environment variable",
			"name", key,
			"value", raw,
			"error", err)
		return fallback
	}
	return time.Duration(value) * time.Millisecond
}
