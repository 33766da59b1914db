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

// Package connection carries the database connection flags shared by the
// subcommands.
package connection

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/rashidov9797/PgSmartVacuum/internal/cmd/env"
	"github.com/rashidov9797/PgSmartVacuum/pkg/postgres"
)

// defaultApplicationName shows up in pg_stat_activity for every session
// the tool opens, unless APPLICATION_NAME overrides it.
const defaultApplicationName = "pgsmartvacuum"

// Flags holds the connection related command line flags. Flags left empty
// defer to the libpq environment (PGHOST, PGPORT, PGDATABASE, PGUSER,
// PGPASSWORD) and its defaults. The password deliberately has no flag:
// use PGPASSWORD or a password file.
type Flags struct {
	Host     string
	Port     int
	Database string
	User     string

	LockTimeoutMS      int
	StatementTimeoutMS int
}

// AddFlags registers the connection flags on the given flag set.
func (f *Flags) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.Host, "host", "",
		"Database server host (defaults to PGHOST)")
	flags.IntVar(&f.Port, "port", 0,
		"Database server port (defaults to PGPORT)")
	flags.StringVarP(&f.Database, "dbname", "d", "",
		"Database to audit (defaults to PGDATABASE)")
	flags.StringVarP(&f.User, "username", "U", "",
		"Database user (defaults to PGUSER)")
	flags.IntVar(&f.LockTimeoutMS, "lock-timeout-ms",
		env.Int("LOCK_TIMEOUT_MS", int(postgres.DefaultLockTimeout.Milliseconds())),
		"Session lock_timeout in milliseconds")
	flags.IntVar(&f.StatementTimeoutMS, "statement-timeout-ms",
		env.Int("STATEMENT_TIMEOUT_MS", int(postgres.DefaultStatementTimeout.Milliseconds())),
		"Session statement_timeout in milliseconds")
}

// Options converts the flags to connection options.
func (f *Flags) Options() postgres.ConnectionOptions {
	return postgres.ConnectionOptions{
		Host:             f.Host,
		Port:             f.Port,
		Database:         f.Database,
		User:             f.User,
		ApplicationName:  env.String("APPLICATION_NAME", defaultApplicationName),
		LockTimeout:      time.Duration(f.LockTimeoutMS) * time.Millisecond,
		StatementTimeout: time.Duration(f.StatementTimeoutMS) * time.Millisecond,
	}
}
