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

// Package sinker defines the capability every target implementation
// satisfies, plus the batch-dispatch helper (BaseSinker) shared by
// the row-batch targets.
package sinker

import "github.com/dtstream/dtstream/internal/meta"

// Sinker replays decoded data against one target. Every method
// receives a contiguous batch; the pipeline driver and parallelizer
// own batch boundaries.
type Sinker interface {
	// SinkDml replays row mutations.
	SinkDml(data []meta.RowData) error
	// SinkDdl replays schema-change statements. Only sinkers that own
	// schema (the target relational database, not e.g. Kafka) do
	// anything here.
	SinkDdl(data []meta.DdlData) error
	// SinkRaw replays opaque, non-row payloads (Redis commands).
	SinkRaw(data []meta.DtData) error
	// RefreshMeta is invoked on every sinker after every sink_ddl call,
	// even sinkers that did not replay the DDL themselves, so that
	// target-side column order/type caches never drift from the
	// source.
	RefreshMeta(data []meta.DdlData) error
	// Close releases the sinker's connections.
	Close() error
}
