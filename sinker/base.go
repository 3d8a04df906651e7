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

package sinker

import (
	"time"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
)

// DefaultBatchSize is used by BaseSinker when a concrete sinker does
// not set its own.
const DefaultBatchSize = 200

// BatchFunc replays one contiguous window of data. start/size describe
// the window's bounds within the full slice backing BaseSinker.SinkInBatches.
type BatchFunc func(data []meta.RowData, start, size int) error

// BaseSinker implements the batch-dispatch loop shared by every
// row-batch target (starrocks, mysql, postgres, mongo): split data
// into contiguous windows of at most BatchSize and invoke fn for
// each, updating the monitor after every window.
type BaseSinker struct {
	BatchSize int
	Monitor   *monitor.Monitor
}

// SinkInBatches drains data through fn in windows of at most
// b.BatchSize (or DefaultBatchSize), recording batch monitor counters
// per window.
func (b *BaseSinker) SinkInBatches(data []meta.RowData, fn BatchFunc) error {
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	allCount := len(data)
	sinked := 0
	for sinked < allCount {
		size := batchSize
		if allCount-sinked < size {
			size = allCount - sinked
		}
		if size == 0 {
			break
		}

		start := time.Now()
		if err := fn(data, sinked, size); err != nil {
			return err
		}

		if b.Monitor != nil {
			dataSize := 0
			for _, r := range data[sinked : sinked+size] {
				dataSize += r.DataSize
			}
			b.Monitor.UpdateBatchMonitor(size, dataSize, start)
		}

		sinked += size
	}
	return nil
}

// SinkSerially replays data one row at a time through fn (used by
// targets that cannot batch Updates, e.g. StarRocks), recording
// serial monitor counters for the whole call.
func (b *BaseSinker) SinkSerially(data []meta.RowData, fn func(row meta.RowData) error) error {
	start := time.Now()
	dataSize := 0
	for _, row := range data {
		if err := fn(row); err != nil {
			return err
		}
		dataSize += row.DataSize
	}
	if b.Monitor != nil && len(data) > 0 {
		b.Monitor.UpdateSerialMonitor(len(data), dataSize, start)
	}
	return nil
}
