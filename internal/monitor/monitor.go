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

// Package monitor implements the writer-lock-protected counter set
// for the pipeline, additionally exported to Prometheus so that the
// same update path backs both the pipeline driver's checkpoint
// logging and external scraping.
package monitor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LatencyBuckets are the bucket boundaries for the per-query latency
// histograms.
var LatencyBuckets = []float64{
	.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

var (
	promRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replistream_records_total",
		Help: "the total number of rows processed across all sinkers",
	})
	promSinked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replistream_sinked_total",
		Help: "the total number of items drained and dispatched by the pipeline driver",
	})
	promBufferSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "replistream_buffer_size",
		Help: "the most recently observed depth of the bounded queue",
	})
	promSerialWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replistream_serial_writes_total",
		Help: "the total number of rows written through a sinker's serial fallback path",
	})
	promQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "replistream_query_latency_seconds",
		Help:    "latency of one batch or serial sink operation",
		Buckets: LatencyBuckets,
	})
)

// Monitor accumulates the pipeline's counters. All mutating methods
// take the writer lock for the duration of the update, which
// is always sub-microsecond work.
type Monitor struct {
	mu       sync.Mutex
	counters map[CounterType]int64
	batches  map[CounterType]batched
	custom   map[string]int64
}

// New returns an empty Monitor.
func New() *Monitor {
	return &Monitor{
		counters: make(map[CounterType]int64),
		batches:  make(map[CounterType]batched),
		custom:   make(map[string]int64),
	}
}

// AddCounter adds delta to the named plain counter and returns the
// Monitor so calls can be chained.
func (m *Monitor) AddCounter(t CounterType, delta int) *Monitor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[t] += int64(delta)
	m.observe(t, delta)
	return m
}

// AddBatchCounter folds (value, weight) into a counter that reports
// an average, used by update_serial_monitor for RecordsPerQuery and
// RtPerQuery.
func (m *Monitor) AddBatchCounter(t CounterType, value, weight int) *Monitor {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batches[t]
	b.sum += int64(value)
	b.weight += int64(weight)
	m.batches[t] = b
	m.observe(t, value)
	return m
}

// AddCustomCounter adds delta to a sinker-defined counter identified
// by name.
func (m *Monitor) AddCustomCounter(name string, delta int) *Monitor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.custom[name] += int64(delta)
	return m
}

// observe mirrors the delta into the package-level Prometheus
// vectors. Called with mu already held.
func (m *Monitor) observe(t CounterType, delta int) {
	switch t {
	case Records:
		promRecords.Add(float64(delta))
	case SinkedCount:
		promSinked.Add(float64(delta))
	case BufferSize:
		promBufferSize.Set(float64(delta))
	case SerialWrites:
		promSerialWrites.Add(float64(delta))
	case RtPerQuery:
		promQueryLatency.Observe(float64(delta) / 1e6)
	}
}

// Snapshot is a point-in-time read of every plain and custom counter,
// used by tests and by any future status endpoint. Batched counters
// recorded through AddBatchCounter are not included.
type Snapshot struct {
	Counters map[CounterType]int64
	Custom   map[string]int64
}

// Snapshot returns a copy of the current counter values.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := Snapshot{
		Counters: make(map[CounterType]int64, len(m.counters)),
		Custom:   make(map[string]int64, len(m.custom)),
	}
	for k, v := range m.counters {
		out.Counters[k] = v
	}
	for k, v := range m.custom {
		out.Custom[k] = v
	}
	return out
}

// UpdateBatchMonitor implements update_batch_monitor:
// RecordsPerQuery += batchSize, Records += batchSize, RtPerQuery +=
// elapsed microseconds. dataSize is accumulated into a sinker-visible
// "data_size" custom counter; it does not feed any of the named
// counters directly.
func (m *Monitor) UpdateBatchMonitor(batchSize, dataSize int, start time.Time) {
	m.AddCounter(RecordsPerQuery, batchSize)
	m.AddCounter(Records, batchSize)
	m.AddCounter(RtPerQuery, int(time.Since(start).Microseconds()))
	m.AddCustomCounter("data_size", dataSize)
}

// UpdateSerialMonitor records one serial write pass: a batched
// RecordsPerQuery sample of (recordCount, recordCount), Records +=
// recordCount, SerialWrites += recordCount,
// and a batched RtPerQuery sample of (elapsed microseconds,
// recordCount).
func (m *Monitor) UpdateSerialMonitor(recordCount, dataSize int, start time.Time) {
	m.AddBatchCounter(RecordsPerQuery, recordCount, recordCount)
	m.AddCounter(Records, recordCount)
	m.AddCounter(SerialWrites, recordCount)
	m.AddBatchCounter(RtPerQuery, int(time.Since(start).Microseconds()), recordCount)
	m.AddCustomCounter("data_size", dataSize)
}
