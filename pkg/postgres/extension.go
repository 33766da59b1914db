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

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cloudnative-pg/machinery/pkg/log"
)

// ErrExtensionMissing is reported when pgstattuple is not installed and
// cannot be installed. Callers map it to a dedicated process exit code.
var ErrExtensionMissing = errors.New("pgstattuple extension is not available")

// ExtensionPresent checks whether the named extension is installed in the
// current database.
func ExtensionPresent(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var present bool
	err := db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = $1)",
		name,
	).Scan(&present)
	if err != nil {
		return false, fmt.Errorf("while checking extension %s: %w", name, err)
	}
	return present, nil
}

// EnsurePgStatTuple makes sure the pgstattuple extension is available,
// installing it when the connected role has the privilege to do so.
// Without it there is no exact measurement and a run cannot proceed.
func EnsurePgStatTuple(ctx context.Context, db *sql.DB) error {
	contextLogger := log.FromContext(ctx)

	present, err := ExtensionPresent(ctx, db, "pgstattuple")
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	contextLogger.Info("pgstattuple extension not found, attempting installation")
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS pgstattuple"); err != nil {
		return fmt.Errorf("%w: %v", ErrExtensionMissing, err)
	}
	return nil
}
