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
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cloudnative-pg/machinery/pkg/log"

	// Register the pgx stdlib driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrConnectionUnavailable is reported when the target database cannot be
// reached. Callers map it to a dedicated process exit code.
var ErrConnectionUnavailable = errors.New("database connection unavailable")

const (
	// DefaultLockTimeout bounds how long maintenance statements wait for
	// table locks before giving up on a table.
	DefaultLockTimeout = 2 * time.Second

	// DefaultStatementTimeout bounds the runtime of any single statement,
	// VACUUM included.
	DefaultStatementTimeout = 10 * time.Minute

	// DefaultIdleTxTimeout kills sessions stuck idle inside a transaction.
	DefaultIdleTxTimeout = time.Minute

	// DefaultConnectTimeout bounds the initial connection attempt.
	DefaultConnectTimeout = 10 * time.Second

	connectAttempts = 3
)

// ConnectionOptions describes how to reach the target database.
type ConnectionOptions struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string

	ConnectTimeout   time.Duration
	LockTimeout      time.Duration
	StatementTimeout time.Duration
	IdleTxTimeout    time.Duration
}

func (o ConnectionOptions) connectTimeout() time.Duration {
	if o.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return o.ConnectTimeout
}

func (o ConnectionOptions) lockTimeout() time.Duration {
	if o.LockTimeout <= 0 {
		return DefaultLockTimeout
	}
	return o.LockTimeout
}

func (o ConnectionOptions) statementTimeout() time.Duration {
	if o.StatementTimeout <= 0 {
		return DefaultStatementTimeout
	}
	return o.StatementTimeout
}

func (o ConnectionOptions) idleTxTimeout() time.Duration {
	if o.IdleTxTimeout <= 0 {
		return DefaultIdleTxTimeout
	}
	return o.IdleTxTimeout
}

// dsn renders the options as a libpq keyword/value connection string.
// Empty fields are left out so libpq environment variables and defaults
// still apply.
func (o ConnectionOptions) dsn() string {
	pairs := make([]string, 0, 7)
	add := func(key, value string) {
		if value == "" {
			return
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, escapeConnectionValue(value)))
	}

	add("host", o.Host)
	if o.Port > 0 {
		add("port", fmt.Sprintf("%d", o.Port))
	}
	add("dbname", o.Database)
	add("user", o.User)
	add("password", o.Password)
	add("application_name", o.ApplicationName)
	add("connect_timeout", fmt.Sprintf("%d", int(o.connectTimeout().Seconds())))

	return strings.Join(pairs, " ")
}

func escapeConnectionValue(value string) string {
	if !strings.ContainsAny(value, ` '\`) {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// Connect opens a connection pool to the target database, verifies it with
// retried pings, and applies the session safety timeouts.
//
// The pool is capped at a single connection. The pipeline is sequential
// anyway, and the cap guarantees the SET statements below apply to every
// statement the tool later runs.
func Connect(ctx context.Context, options ConnectionOptions) (*sql.DB, error) {
	contextLogger := log.FromContext(ctx)

	db, err := sql.Open("pgx", options.dsn())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, options.connectTimeout())
			defer cancel()
			return db.PingContext(pingCtx)
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(attempt uint, err error) {
			contextLogger.Warning("Connection attempt failed, retrying",
				"attempt", attempt+1,
				"error", err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionUnavailable, err)
	}

	if err := applySessionTimeouts(ctx, db, options); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("while applying session timeouts: %w", err)
	}

	contextLogger.Debug("Connected to the target database",
		"host", options.Host,
		"database", options.Database)
	return db, nil
}

func applySessionTimeouts(ctx context.Context, db *sql.DB, options ConnectionOptions) error {
	settings := []struct {
		name  string
		value time.Duration
	}{
		{"lock_timeout", options.lockTimeout()},
		{"statement_timeout", options.statementTimeout()},
		{"idle_in_transaction_session_timeout", options.idleTxTimeout()},
	}

	for _, setting := range settings {
		statement := fmt.Sprintf("SET %s = %d", setting.name, setting.value.Milliseconds())
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("while setting %s: %w", setting.name, err)
		}
	}
	return nil
}
