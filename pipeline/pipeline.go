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

// Package pipeline implements the driver loop mediating between an
// extractor's queue and a set of sinkers: drain on a time interval or when
// the queue is full, classify the drained batch, dispatch to the
// matching sink_* path, track received/committed positions, and
// checkpoint on an interval.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
	"github.com/dtstream/dtstream/internal/position"
	"github.com/dtstream/dtstream/internal/queue"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/internal/syncer"
	"github.com/dtstream/dtstream/internal/transform"
	"github.com/dtstream/dtstream/parallelizer"
	"github.com/dtstream/dtstream/sinker"
)

// sinkMethod classifies a drained batch so the driver knows which
// fetch/sink path to run: Ddl first, then Dml, then Redis-as-Raw.
type sinkMethod int

const (
	sinkMethodRaw sinkMethod = iota
	sinkMethodDdl
	sinkMethodDml
)

// DataMarker records which source node last produced data flowing
// through this pipeline, used by multi-hop topologies to avoid
// replication loops.
type DataMarker struct {
	mu             sync.RWMutex
	dataOriginNode string
}

func (d *DataMarker) set(node string) {
	if node == "" {
		return
	}
	d.mu.Lock()
	d.dataOriginNode = node
	d.mu.Unlock()
}

// DataOriginNode returns the most recently observed origin node.
func (d *DataMarker) DataOriginNode() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dataOriginNode
}

// Driver is the pipeline's tick loop. One Driver instance mediates
// between exactly one extractor's queue and one logical destination
// (which may itself fan out across several Sinker workers via
// Parallelizer).
type Driver struct {
	Buffer        *queue.Queue[meta.DtItem]
	Parallelizer  parallelizer.Parallelizer
	Sinkers       []sinker.Sinker
	Syncer        *syncer.Syncer
	Monitor       *monitor.Monitor
	DataMarker    *DataMarker
	Transform     transform.Hook

	// Shutdown is the flag a finite extractor (snapshot) sets once it
	// has pushed its last row and the queue has drained. Run finishes
	// draining and returns when the flag is set; a CDC pipeline leaves
	// it nil and stops via context cancellation only.
	Shutdown *atomic.Bool

	stopOnce sync.Once

	// CheckpointInterval governs how often the committed position is
	// logged and persisted to Syncer; BatchSinkInterval governs how
	// long the driver accumulates items before forcing a drain even
	// when the queue isn't full.
	CheckpointInterval time.Duration
	BatchSinkInterval  time.Duration
}

// Run executes the tick loop until ctx is canceled or the shutdown
// flag is set, drains whatever remains in the buffer, then stops the
// pipeline (closing every sinker and the parallelizer) before
// returning.
func (d *Driver) Run(ctx context.Context) error {
	log.WithFields(log.Fields{
		"parallelizer":        d.Parallelizer.Name(),
		"sinkers":             len(d.Sinkers),
		"checkpointIntervalS": d.CheckpointInterval.Seconds(),
	}).Info("pipeline starting")

	defer func() {
		if err := d.Stop(); err != nil {
			log.WithError(err).Warn("error stopping pipeline")
		}
	}()

	lastSinkTime := time.Now()
	lastCheckpointTime := time.Now()
	var lastReceivedPosition, lastCommitPosition position.Position

	for {
		stopping := ctx.Err() != nil || (d.Shutdown != nil && d.Shutdown.Load())

		if !d.Buffer.IsEmpty() {
			d.Monitor.AddCounter(monitor.BufferSize, d.Buffer.Len())
		}

		var data []meta.DtItem
		if time.Since(lastSinkTime) < d.BatchSinkInterval && !d.Buffer.IsFull() {
			// accumulate: not enough time has passed and the queue
			// isn't pressuring us to drain early.
		} else {
			lastSinkTime = time.Now()
			data = d.Parallelizer.Drain(d.Buffer)
		}

		if len(data) > 0 && d.DataMarker != nil {
			d.DataMarker.set(data[0].DataOriginNode)
		}

		count, receivedPos, commitPos, err := d.dispatch(ctx, data)
		if err != nil {
			return err
		}

		if !receivedPos.IsZero() {
			d.Syncer.SetReceived(receivedPos)
			lastReceivedPosition = receivedPos
		}
		if !commitPos.IsZero() {
			lastCommitPosition = commitPos
		}

		lastCheckpointTime = d.recordCheckpoint(lastCheckpointTime, lastReceivedPosition, lastCommitPosition)

		d.Monitor.AddCounter(monitor.SinkedCount, count)

		if stopping && d.Buffer.IsEmpty() {
			return nil
		}

		select {
		case <-time.After(time.Millisecond):
		case <-ctx.Done():
			// fall through to drain any remainder on the next
			// iteration instead of returning immediately, so items
			// already pushed before cancellation are not dropped.
		}
	}
}

// Stop closes every sinker and the parallelizer. Run calls it on the
// way out; calling it again (or directly, for a driver that never
// ran) is safe — each sinker's Close is invoked exactly once.
func (d *Driver) Stop() error {
	var firstErr error
	d.stopOnce.Do(func() {
		for _, s := range d.Sinkers {
			if err := s.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if err := d.Parallelizer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

func (d *Driver) dispatch(ctx context.Context, data []meta.DtItem) (count int, lastReceived, lastCommit position.Position, err error) {
	switch classify(data) {
	case sinkMethodDdl:
		return d.sinkDdl(ctx, data)
	case sinkMethodDml:
		return d.sinkDml(ctx, data)
	default:
		return d.sinkRaw(ctx, data)
	}
}

// classify picks the sink method: the first non-Begin/Commit item in
// the batch decides it; an all-delimiter (or empty) batch falls
// through to Raw.
func classify(data []meta.DtItem) sinkMethod {
	for _, item := range data {
		switch item.Data.Kind {
		case meta.DtDataDdl:
			return sinkMethodDdl
		case meta.DtDataDml:
			return sinkMethodDml
		case meta.DtDataRedis:
			return sinkMethodRaw
		case meta.DtDataBegin, meta.DtDataCommit:
			continue
		}
	}
	return sinkMethodRaw
}

func (d *Driver) sinkDdl(ctx context.Context, all []meta.DtItem) (int, position.Position, position.Position, error) {
	data, lastReceived, lastCommit := fetchDdl(all)
	if len(data) == 0 {
		return 0, lastReceived, lastCommit, nil
	}
	if err := d.Parallelizer.SinkDdl(ctx, data, d.Sinkers); err != nil {
		return 0, lastReceived, lastCommit, err
	}
	// only part of sinkers will execute sink_ddl, but all sinkers
	// should refresh metadata.
	for _, s := range d.Sinkers {
		if err := s.RefreshMeta(data); err != nil {
			return 0, lastReceived, lastCommit, err
		}
	}
	return len(data), lastReceived, lastCommit, nil
}

func (d *Driver) sinkDml(ctx context.Context, all []meta.DtItem) (int, position.Position, position.Position, error) {
	data, lastReceived, lastCommit := fetchDml(all)
	if len(data) == 0 {
		return 0, lastReceived, lastCommit, nil
	}
	for _, row := range data {
		if err := row.Validate(); err != nil {
			return 0, lastReceived, lastCommit, rerror.NewDecodeError(row.Schema+"."+row.Tb, err.Error())
		}
	}
	if d.Transform != nil {
		transformed, err := d.Transform.Transform(data)
		if err != nil {
			return 0, lastReceived, lastCommit, err
		}
		data = transformed
	}
	if err := d.Parallelizer.SinkDml(ctx, data, d.Sinkers); err != nil {
		return 0, lastReceived, lastCommit, err
	}
	return len(data), lastReceived, lastCommit, nil
}

func (d *Driver) sinkRaw(ctx context.Context, all []meta.DtItem) (int, position.Position, position.Position, error) {
	data, lastReceived, lastCommit := fetchRaw(all)
	if len(data) == 0 {
		return 0, lastReceived, lastCommit, nil
	}
	if err := d.Parallelizer.SinkRaw(ctx, data, d.Sinkers); err != nil {
		return 0, lastReceived, lastCommit, err
	}
	return len(data), lastReceived, lastCommit, nil
}

// fetchDdl extracts DdlData items, tracking positions the same way as
// fetchDml/fetchRaw: a Commit advances both last_received and
// last_commit and is itself dropped; a Begin is dropped without
// advancing anything.
func fetchDdl(all []meta.DtItem) ([]meta.DdlData, position.Position, position.Position) {
	var result []meta.DdlData
	var lastReceived, lastCommit position.Position
	for _, item := range all {
		switch item.Data.Kind {
		case meta.DtDataCommit:
			lastCommit = item.Position
			lastReceived = lastCommit
		case meta.DtDataDdl:
			lastReceived = item.Position
			result = append(result, item.Data.Ddl)
		}
	}
	return result, lastReceived, lastCommit
}

func fetchDml(all []meta.DtItem) ([]meta.RowData, position.Position, position.Position) {
	var result []meta.RowData
	var lastReceived, lastCommit position.Position
	for _, item := range all {
		switch item.Data.Kind {
		case meta.DtDataCommit:
			lastCommit = item.Position
			lastReceived = lastCommit
		case meta.DtDataDml:
			lastReceived = item.Position
			result = append(result, item.Data.Row)
		}
	}
	return result, lastReceived, lastCommit
}

// fetchRaw extracts everything that isn't Begin/Commit (Dml and Ddl
// items included) as an opaque DtData payload, dropping Redis PING
// keepalives from the stream.
func fetchRaw(all []meta.DtItem) ([]meta.DtData, position.Position, position.Position) {
	var result []meta.DtData
	var lastReceived, lastCommit position.Position
	for _, item := range all {
		switch item.Data.Kind {
		case meta.DtDataCommit:
			lastCommit = item.Position
			lastReceived = lastCommit

		case meta.DtDataRedis:
			lastReceived = item.Position
			entry := item.Data.Redis
			if !entry.IsRawCmd && equalFoldASCII(entry.CmdName, "ping") {
				continue
			}
			result = append(result, item.Data)

		case meta.DtDataBegin:
			continue

		default:
			lastReceived = item.Position
			result = append(result, item.Data)
		}
	}
	return result, lastReceived, lastCommit
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (d *Driver) recordCheckpoint(lastCheckpointTime time.Time, lastReceived, lastCommit position.Position) time.Time {
	if time.Since(lastCheckpointTime) < d.CheckpointInterval {
		return lastCheckpointTime
	}

	if !lastReceived.IsZero() {
		log.Infof("current_position | %s", lastReceived.String())
	}
	if !lastCommit.IsZero() {
		log.Infof("checkpoint_position | %s", lastCommit.String())
		d.Syncer.SetCommitted(lastCommit)
	}
	return time.Now()
}
