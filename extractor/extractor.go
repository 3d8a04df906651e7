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

// Package extractor defines the capability shared by every data
// source implementation: pull change or snapshot data and push it
// onto a bounded queue for the pipeline driver to drain. Concrete
// extractors live in extractor/snapshot and extractor/pgcdc.
package extractor

import (
	"context"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/queue"
)

// Extractor pulls DtItems from a source and pushes them onto sink.
// Extract blocks until the source is exhausted (snapshot) or ctx is
// canceled (CDC); it returns the first error encountered.
type Extractor interface {
	Extract(ctx context.Context, sink *queue.Queue[meta.DtItem]) error

	// Close releases any resources (connections, replication slots)
	// held by the extractor.
	Close() error
}
