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
	"errors"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ConnectionOptions", func() {
	It("renders a full connection string", func() {
		options := ConnectionOptions{
			Host:            "db.example.com",
			Port:            5433,
			Database:        "app",
			User:            "maintenance",
			Password:        "secret",
			ApplicationName: "pgsmartvacuum",
		}
		Expect(options.dsn()).To(Equal(
			"host=db.example.com port=5433 dbname=app user=maintenance " +
				"password=secret application_name=pgsmartvacuum connect_timeout=10"))
	})

	It("omits empty fields so libpq defaults apply", func() {
		options := ConnectionOptions{Database: "app"}
		Expect(options.dsn()).To(Equal("dbname=app connect_timeout=10"))
	})

	It("quotes values containing spaces and quotes", func() {
		options := ConnectionOptions{Password: `p 'wd`}
		Expect(options.dsn()).To(ContainSubstring(`password='p \'wd'`))
	})

	It("falls back to safe default timeouts", func() {
		options := ConnectionOptions{LockTimeout: -1}
		Expect(options.lockTimeout()).To(Equal(DefaultLockTimeout))
		Expect(options.statementTimeout()).To(Equal(DefaultStatementTimeout))
		Expect(options.idleTxTimeout()).To(Equal(DefaultIdleTxTimeout))
	})
})

var _ = Describe("applySessionTimeouts", func() {
	It("applies the three session safety timeouts in milliseconds", func() {
		db, mock, err := sqlmock.New()
		Expect(err).ToNot(HaveOccurred())

		mock.ExpectExec("SET lock_timeout = 2000").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SET statement_timeout = 600000").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SET idle_in_transaction_session_timeout = 60000").
			WillReturnResult(sqlmock.NewResult(0, 0))

		options := ConnectionOptions{
			LockTimeout:      2 * time.Second,
			StatementTimeout: 10 * time.Minute,
			IdleTxTimeout:    time.Minute,
		}
		Expect(applySessionTimeouts(context.Background(), db, options)).To(Succeed())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("stops at the first failing setting", func() {
		db, mock, err := sqlmock.New()
		Expect(err).ToNot(HaveOccurred())

		mock.ExpectExec("SET lock_timeout").
			WillReturnError(errors.New("parameter cannot be changed"))

		err = applySessionTimeouts(context.Background(), db, ConnectionOptions{})
		Expect(err).To(MatchError(ContainSubstring("lock_timeout")))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})
})
