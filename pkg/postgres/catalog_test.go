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

	"github.com/rashidov9797/PgSmartVacuum/pkg/bloat"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	var (
		mock    sqlmock.Sqlmock
		catalog *Catalog
	)

	BeforeEach(func() {
		database, m, err := sqlmock.New()
		Expect(err).ToNot(HaveOccurred())
		mock = m
		catalog = NewCatalog(database)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	Describe("ListApproximateStats", func() {
		It("returns the tuple counters of every user table", func() {
			mock.ExpectQuery("FROM pg_class").WillReturnRows(
				sqlmock.NewRows([]string{"nspname", "relname", "n_live_tup", "n_dead_tup"}).
					AddRow("public", "orders", int64(100), int64(50)).
					AddRow("billing", "invoices", int64(0), int64(0)),
			)

			stats, err := catalog.ListApproximateStats(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(stats).To(Equal([]bloat.TableStat{
				{
					Identity:   bloat.TableIdentity{Schema: "public", Name: "orders"},
					LiveTuples: 100,
					DeadTuples: 50,
				},
				{
					Identity: bloat.TableIdentity{Schema: "billing", Name: "invoices"},
				},
			}))
		})

		It("propagates query failures", func() {
			mock.ExpectQuery("FROM pg_class").
				WillReturnError(errors.New("connection reset"))

			_, err := catalog.ListApproximateStats(context.Background())
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	Describe("MeasureDeadTuplePercent", func() {
		table := bloat.TableIdentity{Schema: "public", Name: "orders"}

		It("queries pgstattuple with the quoted table name", func() {
			mock.ExpectQuery("FROM pgstattuple").
				WithArgs(`"public"."orders"`).
				WillReturnRows(sqlmock.NewRows([]string{"dead_tuple_percent"}).AddRow(12.5))

			percent, err := catalog.MeasureDeadTuplePercent(context.Background(), table)
			Expect(err).ToNot(HaveOccurred())
			Expect(percent).To(Equal(12.5))
		})

		It("quotes identifiers containing special characters", func() {
			odd := bloat.TableIdentity{Schema: "public", Name: `we"ird`}
			mock.ExpectQuery("FROM pgstattuple").
				WithArgs(`"public"."we""ird"`).
				WillReturnRows(sqlmock.NewRows([]string{"dead_tuple_percent"}).AddRow(0.0))

			_, err := catalog.MeasureDeadTuplePercent(context.Background(), odd)
			Expect(err).ToNot(HaveOccurred())
		})

		It("propagates measurement failures", func() {
			mock.ExpectQuery("FROM pgstattuple").
				WithArgs(`"public"."orders"`).
				WillReturnError(errors.New("relation does not exist"))

			_, err := catalog.MeasureDeadTuplePercent(context.Background(), table)
			Expect(err).To(MatchError(ContainSubstring("relation does not exist")))
		})
	})

	Describe("TopDeadTuples", func() {
		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		reportColumns := []string{
			"nspname", "relname", "n_live_tup", "n_dead_tup",
			"last_vacuum", "last_autovacuum", "last_analyze", "last_autoanalyze",
		}

		It("returns rows with nullable maintenance timestamps", func() {
			mock.ExpectQuery("ORDER BY COALESCE").WillReturnRows(
				sqlmock.NewRows(reportColumns).
					AddRow("public", "sessions", int64(10), int64(90), now, nil, nil, now).
					AddRow("public", "orders", int64(100), int64(50), nil, nil, nil, nil),
			)

			stats, err := catalog.TopDeadTuples(context.Background(), nil, 10)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats).To(HaveLen(2))

			Expect(stats[0].Identity.Name).To(Equal("sessions"))
			Expect(stats[0].LastVacuum).ToNot(BeNil())
			Expect(stats[0].LastVacuum.Equal(now)).To(BeTrue())
			Expect(stats[0].LastAutovacuum).To(BeNil())
			Expect(stats[0].DeadPercent()).To(BeNumerically("~", 90.0, 0.01))

			Expect(stats[1].LastVacuum).To(BeNil())
			Expect(stats[1].LastAutoanalyze).To(BeNil())
		})

		It("honors the schema allow-list", func() {
			mock.ExpectQuery("ORDER BY COALESCE").WillReturnRows(
				sqlmock.NewRows(reportColumns).
					AddRow("public", "sessions", int64(10), int64(90), nil, nil, nil, nil).
					AddRow("billing", "invoices", int64(100), int64(25), nil, nil, nil, nil),
			)

			stats, err := catalog.TopDeadTuples(context.Background(), []string{"billing"}, 10)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats).To(HaveLen(1))
			Expect(stats[0].Identity.Schema).To(Equal("billing"))
		})

		It("truncates the report to the limit", func() {
			mock.ExpectQuery("ORDER BY COALESCE").WillReturnRows(
				sqlmock.NewRows(reportColumns).
					AddRow("public", "a", int64(1), int64(3), nil, nil, nil, nil).
					AddRow("public", "b", int64(1), int64(2), nil, nil, nil, nil).
					AddRow("public", "c", int64(1), int64(1), nil, nil, nil, nil),
			)

			stats, err := catalog.TopDeadTuples(context.Background(), nil, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats).To(HaveLen(2))
		})
	})
})
