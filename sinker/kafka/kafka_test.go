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

package kafka

import "testing"

func TestNewDefaultsQueueTimeoutWhenUnset(t *testing.T) {
	s := New(Config{Brokers: []string{"localhost:9092"}}, nil, nil, nil)
	if s.QueueTimeout != DefaultQueueTimeout {
		t.Fatalf("expected default queue timeout %v, got %v", DefaultQueueTimeout, s.QueueTimeout)
	}
}

func TestNewHonorsConfiguredQueueTimeout(t *testing.T) {
	s := New(Config{Brokers: []string{"localhost:9092"}, QueueTimeoutSecs: 5}, nil, nil, nil)
	if s.QueueTimeout.Seconds() != 5 {
		t.Fatalf("expected a 5s queue timeout, got %v", s.QueueTimeout)
	}
}

func TestSinkDmlNoopOnEmptyBatch(t *testing.T) {
	s := New(Config{Brokers: []string{"localhost:9092"}}, nil, nil, nil)
	if err := s.SinkDml(nil); err != nil {
		t.Fatalf("expected an empty batch to be a no-op, got %v", err)
	}
}

func TestSinkDdlAndSinkRawAreNoops(t *testing.T) {
	s := New(Config{Brokers: []string{"localhost:9092"}}, nil, nil, nil)
	if err := s.SinkDdl(nil); err != nil {
		t.Fatalf("expected SinkDdl to be a no-op, got %v", err)
	}
	if err := s.SinkRaw(nil); err != nil {
		t.Fatalf("expected SinkRaw to be a no-op, got %v", err)
	}
	if err := s.RefreshMeta(nil); err != nil {
		t.Fatalf("expected RefreshMeta to be a no-op, got %v", err)
	}
}
