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

// Package parallelizer implements the fan-out strategies between the
// pipeline driver and a set of parallel sinker workers targeting the
// same destination.
package parallelizer

import (
	"context"
	"sync"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/queue"
	"github.com/dtstream/dtstream/sinker"
)

// Parallelizer drains the shared queue and dispatches each sink_*
// call across one or more Sinker workers.
type Parallelizer interface {
	Name() string

	// Drain removes and returns every currently queued item, run once
	// per pipeline tick.
	Drain(buf *queue.Queue[meta.DtItem]) []meta.DtItem

	SinkDml(ctx context.Context, data []meta.RowData, sinkers []sinker.Sinker) error
	SinkDdl(ctx context.Context, data []meta.DdlData, sinkers []sinker.Sinker) error
	SinkRaw(ctx context.Context, data []meta.DtData, sinkers []sinker.Sinker) error

	Close() error
}

// drainAll is shared by every strategy: draining is a plumbing
// concern, not a fan-out concern.
func drainAll(buf *queue.Queue[meta.DtItem]) []meta.DtItem {
	return buf.DrainAll(0)
}

// broadcastDdl sends data to every sinker in turn; schema changes must
// reach every destination that owns schema, and targets that don't
// (e.g. Kafka) simply no-op.
func broadcastDdl(data []meta.DdlData, sinkers []sinker.Sinker) error {
	for _, s := range sinkers {
		if err := s.SinkDdl(data); err != nil {
			return err
		}
	}
	return nil
}

// broadcastRaw sends data to every sinker; unlike Dml, Raw payloads
// are not partitioned across workers because there is exactly one
// logical Redis target per pipeline.
func broadcastRaw(data []meta.DtData, sinkers []sinker.Sinker) error {
	for _, s := range sinkers {
		if err := s.SinkRaw(data); err != nil {
			return err
		}
	}
	return nil
}

// fanOut runs fn(0)..fn(n-1) concurrently and returns the first error,
// if any, after every goroutine has finished. Used by RoundRobin and
// Hash to dispatch each partition to its sinker worker in parallel.
func fanOut(n int, fn func(i int) error) error {
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
