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
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// writeMetricsFile writes the gathered metrics in the Prometheus text
// exposition format. The write goes through a rename so a concurrently
// scraping textfile collector never sees a half written file.
func writeMetricsFile(gatherer prometheus.Gatherer, path string) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("while gathering run metrics: %w", err)
	}

	var buffer bytes.Buffer
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(&buffer, family); err != nil {
			return fmt.Errorf("while encoding run metrics: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("while writing metrics file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("while replacing metrics file %s: %w", filepath.Base(path), err)
	}
	return nil
}
