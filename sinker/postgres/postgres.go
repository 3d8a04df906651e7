// Copyright 2026 The dtstream Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package postgres implements a row-batch sinker against a plain
// PostgreSQL target: $N-placeholder INSERT ... ON CONFLICT DO UPDATE
// for upserts, keyed DELETE for deletes.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/internal/stdpool"
	"github.com/dtstream/dtstream/internal/stopper"
	"github.com/dtstream/dtstream/sinker"
)

// Sinker replays row mutations against one PostgreSQL database using
// a connection pool, one statement per row inside a transaction per
// batch. Manager supplies each table's where-columns so upserts can
// build an ON CONFLICT clause.
type Sinker struct {
	Pool    *pgxpool.Pool
	Manager *meta.Manager

	base sinker.BaseSinker
}

// New returns a Sinker with batchSize rows per transaction.
func New(pool *pgxpool.Pool, mgr *meta.Manager, batchSize int, mon *monitor.Monitor) *Sinker {
	return &Sinker{Pool: pool, Manager: mgr, base: sinker.BaseSinker{BatchSize: batchSize, Monitor: mon}}
}

// Open dials connectString and returns a Sinker bound to the
// resulting pool. The pool closes when ctx stops.
func Open(ctx *stopper.Context, connectString string, mgr *meta.Manager, batchSize int, mon *monitor.Monitor) (*Sinker, error) {
	pool, err := stdpool.OpenPostgres(ctx, connectString)
	if err != nil {
		return nil, err
	}
	return New(pool, mgr, batchSize, mon), nil
}

// SinkDml replays data in batches, one transaction per batch.
func (s *Sinker) SinkDml(data []meta.RowData) error {
	return s.base.SinkInBatches(data, s.sinkBatch)
}

func (s *Sinker) sinkBatch(data []meta.RowData, start, size int) error {
	ctx := context.Background()
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return rerror.NewConnectionError("postgres", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range data[start : start+size] {
		var execErr error
		switch row.Type {
		case meta.RowTypeDelete:
			execErr = s.deleteRow(ctx, tx, row)
		default:
			execErr = s.upsertRow(ctx, tx, row)
		}
		if execErr != nil {
			return rerror.NewSinkError(fmt.Sprintf("%s.%s", row.Schema, row.Tb), execErr.Error())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return rerror.NewConnectionError("postgres", err)
	}
	return nil
}

// deleteRow builds "DELETE FROM schema.tb WHERE pk1 = $1 AND pk2 =
// $2 ..." from the row's where columns.
func (s *Sinker) deleteRow(ctx context.Context, tx pgx.Tx, row meta.RowData) error {
	pkCols := s.whereCols(row)
	if len(pkCols) == 0 {
		return rerror.NewUnexpected(fmt.Sprintf("%s.%s has no key columns to delete by", row.Schema, row.Tb))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s.%s WHERE ", row.Schema, row.Tb)
	values := make([]interface{}, len(pkCols))
	for i, col := range pkCols {
		if i > 0 {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = $%d", col, i+1)
		values[i] = scalar(row.Before[col])
	}

	_, err := tx.Exec(ctx, b.String(), values...)
	return err
}

// upsertRow builds "INSERT INTO schema.tb (cols...) VALUES ($1, ...)
// ON CONFLICT (pk...) DO UPDATE SET col = EXCLUDED.col, ...".
func (s *Sinker) upsertRow(ctx context.Context, tx pgx.Tx, row meta.RowData) error {
	cols := make([]string, 0, len(row.After))
	values := make([]interface{}, 0, len(row.After))
	for col, val := range row.After {
		cols = append(cols, col)
		values = append(values, scalar(val))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s.%s (", row.Schema, row.Tb)
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", i+1)
	}
	b.WriteString(")")

	pkCols := s.whereCols(row)
	if len(pkCols) > 0 {
		b.WriteString(" ON CONFLICT (")
		b.WriteString(strings.Join(pkCols, ", "))
		b.WriteString(") DO UPDATE SET ")
		first := true
		for _, col := range cols {
			if containsString(pkCols, col) {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s = EXCLUDED.%s", col, col)
		}
	}

	_, err := tx.Exec(ctx, b.String(), values...)
	return err
}

func (s *Sinker) whereCols(row meta.RowData) []string {
	if s.Manager == nil {
		return nil
	}
	tbMeta := s.Manager.Get(row.Schema, row.Tb)
	return tbMeta.WhereCols
}

// SinkDdl replays DDL statements verbatim; non-relational targets
// cannot (and callers should not route DDL to them), so a missing
// Statement is simply skipped.
func (s *Sinker) SinkDdl(data []meta.DdlData) error {
	if len(data) == 0 {
		return nil
	}
	ctx := context.Background()
	for _, d := range data {
		if d.Statement == "" {
			continue
		}
		if _, err := s.Pool.Exec(ctx, d.Statement); err != nil {
			return rerror.NewSinkError(fmt.Sprintf("%s.%s", d.Schema, d.Tb), err.Error())
		}
	}
	return nil
}

// SinkRaw is a no-op: this sinker only ever receives Dml/Ddl batches.
func (s *Sinker) SinkRaw(data []meta.DtData) error { return nil }

// RefreshMeta is a no-op: this sinker builds SQL straight from each
// row's own column map, so it carries no target-side metadata cache
// to invalidate.
func (s *Sinker) RefreshMeta(data []meta.DdlData) error { return nil }

// Close releases no resources; Pool's lifecycle is owned by whatever
// opened it (internal/stdpool.OpenPostgres).
func (s *Sinker) Close() error { return nil }

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func scalar(v meta.ColValue) interface{} {
	if v.IsNone() {
		return nil
	}
	return v.String()
}
