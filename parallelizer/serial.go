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

// Serial dispatches every Dml batch to sinkers[0] only, preserving
// global ordering exactly as received; Ddl and Raw batches are
// broadcast to every sinker. Use this strategy whenever ordering
// across different keys matters more than throughput.
type Serial struct{}

func (Serial) Name() string { return "serial" }

func (Serial) Drain(buf *queue.Queue[meta.DtItem]) []meta.DtItem { return drainAll(buf) }

func (Serial) SinkDml(ctx context.Context, data []meta.RowData, sinkers []sinker.Sinker) error {
	if len(sinkers) == 0 || len(data) == 0 {
		return nil
	}
	return sinkers[0].SinkDml(data)
}

func (Serial) SinkDdl(ctx context.Context, data []meta.DdlData, sinkers []sinker.Sinker) error {
	return broadcastDdl(data, sinkers)
}

func (Serial) SinkRaw(ctx context.Context, data []meta.DtData, sinkers []sinker.Sinker) error {
	return broadcastRaw(data, sinkers)
}

func (Serial) Close() error { return nil }
