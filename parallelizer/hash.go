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

package parallelizer

import (
	"context"
	"hash/fnv"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/queue"
	"github.com/dtstream/dtstream/internal/util/msort"
	"github.com/dtstream/dtstream/sinker"
)

// Hash partitions a batch by a deterministic hash of each row's
// primary-key values, dispatching each partition to its own sinker
// worker concurrently while preserving the relative order of rows
// that share a partition, the property Update/Delete ordering on a
// single key depends on.
type Hash struct {
	// KeyCols names the columns hashed, together with schema.table, to
	// choose a partition. When empty, only schema.table is hashed, so
	// every row of a table lands in the same partition; the table's
	// primary key is not looked up.
	KeyCols []string

	// CollapseUpdates, when true, applies msort.UniqueByKey to each
	// partition before sinking, keeping only the latest row per key.
	// Off by default: collapsing breaks the per-key ordering invariant
	// whenever a sinker or downstream consumer needs every
	// intermediate value, not just the final one.
	CollapseUpdates bool
}

func (Hash) Name() string { return "hash" }

func (Hash) Drain(buf *queue.Queue[meta.DtItem]) []meta.DtItem { return drainAll(buf) }

func (h Hash) SinkDml(ctx context.Context, data []meta.RowData, sinkers []sinker.Sinker) error {
	if len(sinkers) == 0 || len(data) == 0 {
		return nil
	}
	partitions := h.partition(data, len(sinkers))

	return fanOut(len(sinkers), func(i int) error {
		part := partitions[i]
		if len(part) == 0 {
			return nil
		}
		if h.CollapseUpdates {
			part = msort.UniqueByKey(part, h.rowKey)
		}
		return sinkers[i].SinkDml(part)
	})
}

func (Hash) SinkDdl(ctx context.Context, data []meta.DdlData, sinkers []sinker.Sinker) error {
	return broadcastDdl(data, sinkers)
}

func (Hash) SinkRaw(ctx context.Context, data []meta.DtData, sinkers []sinker.Sinker) error {
	return broadcastRaw(data, sinkers)
}

func (Hash) Close() error { return nil }

func (h Hash) partition(data []meta.RowData, n int) [][]meta.RowData {
	partitions := make([][]meta.RowData, n)
	for _, row := range data {
		idx := int(h.hash(row) % uint64(n))
		partitions[idx] = append(partitions[idx], row)
	}
	return partitions
}

func (h Hash) rowKey(row meta.RowData) string {
	cols := h.KeyCols
	values := row.PrimaryKeyValues(cols)
	key := row.Schema + "." + row.Tb
	for _, v := range values {
		key += "|" + v.String()
	}
	return key
}

func (h Hash) hash(row meta.RowData) uint64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(h.rowKey(row)))
	return hasher.Sum64()
}
