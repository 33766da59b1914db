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

	"github.com/DATA-DOG/go-sqlmock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EnsurePgStatTuple", func() {
	var (
		mock sqlmock.Sqlmock
		db   *sql.DB
	)

	BeforeEach(func() {
		var err error
		db, mock, err = sqlmock.New()
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("does nothing when the extension is installed", func() {
		mock.ExpectQuery("FROM pg_extension").
			WithArgs("pgstattuple").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		Expect(EnsurePgStatTuple(context.Background(), db)).To(Succeed())
	})

	It("installs the extension when missing", func() {
		mock.ExpectQuery("FROM pg_extension").
			WithArgs("pgstattuple").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pgstattuple").
			WillReturnResult(sqlmock.NewResult(0, 0))

		Expect(EnsurePgStatTuple(context.Background(), db)).To(Succeed())
	})

	It("reports ErrExtensionMissing when installation fails", func() {
		mock.ExpectQuery("FROM pg_extension").
			WithArgs("pgstattuple").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS pgstattuple").
			WillReturnError(errors.New("permission denied to create extension"))

		err := EnsurePgStatTuple(context.Background(), db)
		Expect(err).To(MatchError(ErrExtensionMissing))
	})

	It("propagates catalog lookup failures", func() {
		mock.ExpectQuery("FROM pg_extension").
			WithArgs("pgstattuple").
			WillReturnError(errors.New("server closed the connection unexpectedly"))

		err := EnsurePgStatTuple(context.Background(), db)
		Expect(err).To(MatchError(ContainSubstring("server closed")))
	})
})
