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

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/queue"
	"github.com/dtstream/dtstream/sinker"
)

// RoundRobin splits a batch evenly across every sinker worker, with no
// ordering guarantee across rows routed to different workers. Use
// this strategy when rows carry no key relationship the target needs
// preserved (e.g. an idempotent, order-insensitive load path).
type RoundRobin struct{}

func (RoundRobin) Name() string { return "round_robin" }

func (RoundRobin) Drain(buf *queue.Queue[meta.DtItem]) []meta.DtItem { return drainAll(buf) }

func (RoundRobin) SinkDml(ctx context.Context, data []meta.RowData, sinkers []sinker.Sinker) error {
	if len(sinkers) == 0 || len(data) == 0 {
		return nil
	}
	partitions := partitionRoundRobin(data, len(sinkers))

	return fanOut(len(sinkers), func(i int) error {
		if len(partitions[i]) == 0 {
			return nil
		}
		return sinkers[i].SinkDml(partitions[i])
	})
}

func (RoundRobin) SinkDdl(ctx context.Context, data []meta.DdlData, sinkers []sinker.Sinker) error {
	return broadcastDdl(data, sinkers)
}

func (RoundRobin) SinkRaw(ctx context.Context, data []meta.DtData, sinkers []sinker.Sinker) error {
	return broadcastRaw(data, sinkers)
}

func (RoundRobin) Close() error { return nil }

// partitionRoundRobin splits data into n contiguous, near-equal-sized
// chunks, chunk i going to sinker i, not an interleaved per-item
// assignment.
func partitionRoundRobin(data []meta.RowData, n int) [][]meta.RowData {
	partitions := make([][]meta.RowData, n)
	total := len(data)
	base := total / n
	rem := total % n

	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		partitions[i] = data[start : start+size]
		start += size
	}
	return partitions
}
