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

// Package kafka implements an async, Avro-encoding sinker: every row
// is routed to a topic, Avro-encoded, and fired without waiting for
// individual delivery before the whole batch's results are
// collected.
package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dtstream/dtstream/internal/avroconv"
	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/internal/router"
)

// DefaultQueueTimeout bounds how long the producer waits for the whole
// batch's delivery reports when Config.QueueTimeoutSecs is unset.
const DefaultQueueTimeout = 30 * time.Second

// Sinker produces RowData as Avro-encoded Kafka messages. It carries
// no target schema of its own, so SinkDdl/RefreshMeta are no-ops.
type Sinker struct {
	Writer       *kafka.Writer
	Router       *router.Router
	Avro         *avroconv.Converter
	Manager      *meta.Manager
	Monitor      *monitor.Monitor
	QueueTimeout time.Duration
}

// New returns a Sinker producing to brokers with per-message topic
// routing (the Writer's own Topic is left empty so every kafka.Message
// can carry its own, per router.GetTopic), applying cfg's queue-timeout
// budget.
func New(cfg Config, rtr *router.Router, mgr *meta.Manager, mon *monitor.Monitor) *Sinker {
	timeout := DefaultQueueTimeout
	if cfg.QueueTimeoutSecs > 0 {
		timeout = time.Duration(cfg.QueueTimeoutSecs) * time.Second
	}
	return &Sinker{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		Router:       rtr,
		Avro:         avroconv.New(),
		Manager:      mgr,
		Monitor:      mon,
		QueueTimeout: timeout,
	}
}

// SinkDml fans every row out to its topic, fires every produce call
// without blocking on individual results, then waits for the whole
// batch's delivery reports and returns the first failure.
func (s *Sinker) SinkDml(data []meta.RowData) error {
	if len(data) == 0 {
		return nil
	}

	start := time.Now()
	dataSize := 0
	messages := make([]kafka.Message, 0, len(data))

	for _, row := range data {
		dataSize += row.DataSize
		tbMeta := s.Manager.Get(row.Schema, row.Tb)
		topic := s.Router.GetTopic(row.Schema, row.Tb)

		key, err := s.Avro.RowDataToAvroKey(tbMeta, row)
		if err != nil {
			return rerror.NewSinkError("kafka", err.Error())
		}
		value, err := s.Avro.RowDataToAvroValue(tbMeta, row)
		if err != nil {
			return rerror.NewSinkError("kafka", err.Error())
		}

		messages = append(messages, kafka.Message{Topic: topic, Key: key, Value: value})
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.QueueTimeout)
	defer cancel()

	// WriteMessages dispatches every message and waits for the whole
	// batch's delivery reports together, the Go equivalent of firing
	// N non-blocking futures and then awaiting all of them.
	if err := s.Writer.WriteMessages(ctx, messages...); err != nil {
		return rerror.NewSinkError("kafka", "failed in kafka producer: "+err.Error())
	}

	if s.Monitor != nil {
		s.Monitor.UpdateBatchMonitor(len(data), dataSize, start)
	}
	return nil
}

// SinkDdl is a no-op: Kafka has no schema to apply DDL against.
func (s *Sinker) SinkDdl(data []meta.DdlData) error { return nil }

// SinkRaw is a no-op: this sinker only ever receives Dml batches.
func (s *Sinker) SinkRaw(data []meta.DtData) error { return nil }

// RefreshMeta is a no-op: topic routing depends only on (schema,
// table), not column metadata.
func (s *Sinker) RefreshMeta(data []meta.DdlData) error { return nil }

// Close flushes and closes the underlying producer.
func (s *Sinker) Close() error { return s.Writer.Close() }
