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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cloudnative-pg/machinery/pkg/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/report"
	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"
	"github.com/rashidov9797/PgSmartVacuum/pkg/postgres"
)

// result is the JSON document of one run.
type result struct {
	Outcomes []bloat.Outcome `json:"outcomes"`
	Summary  bloat.Summary   `json:"summary"`
}

// Run implements the "run" subcommand
func Run(ctx context.Context, options Options) error {
	contextLogger := log.FromContext(ctx)

	if !options.Window.IsOpen() {
		contextLogger.Info("Outside the maintenance window, nothing to do",
			"schedule", options.Window.Schedule)
		if next := options.Window.Next(); next != nil {
			fmt.Printf("Outside the maintenance window, next window starts at %s\n",
				next.Format("2006-01-02T15:04:05Z07:00"))
		}
		return nil
	}

	db, err := postgres.Connect(ctx, options.Connection.Options())
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := postgres.EnsurePgStatTuple(ctx, db); err != nil {
		return err
	}

	catalog := postgres.NewCatalog(db)
	textOutput := options.Output != "json"

	if textOutput && options.TopLimit > 0 {
		stats, err := catalog.TopDeadTuples(ctx, options.Bloat.Schemas, options.TopLimit)
		if err != nil {
			return err
		}
		report.PrintTable(stats)
		fmt.Println()
	}

	metrics := bloat.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("while registering run metrics: %w", err)
	}

	start := time.Now()
	runResult := result{Outcomes: []bloat.Outcome{}}
	pipeline := &bloat.Pipeline{
		Source:   catalog,
		Executor: postgres.NewMaintainer(db),
		Config:   options.Bloat,
		Metrics:  metrics,
		Observer: func(position, total int, outcome bloat.Outcome) {
			runResult.Outcomes = append(runResult.Outcomes, outcome)
			if textOutput {
				printOutcome(position, total, outcome)
			}
		},
	}

	summary, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	runResult.Summary = summary
	metrics.RecordRunDuration(time.Since(start))

	if options.MetricsFile != "" {
		if err := writeMetricsFile(registry, options.MetricsFile); err != nil {
			return err
		}
	}

	if textOutput {
		printSummary(summary)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(runResult)
}
