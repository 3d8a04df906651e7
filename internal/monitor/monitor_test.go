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

package monitor

import (
	"testing"
	"time"
)

func TestUpdateBatchMonitor(t *testing.T) {
	m := New()
	m.UpdateBatchMonitor(10, 1024, time.Now())
	snap := m.Snapshot()
	if snap.Counters[RecordsPerQuery] != 10 {
		t.Fatalf("expected RecordsPerQuery=10, got %d", snap.Counters[RecordsPerQuery])
	}
	if snap.Counters[Records] != 10 {
		t.Fatalf("expected Records=10, got %d", snap.Counters[Records])
	}
	if snap.Custom["data_size"] != 1024 {
		t.Fatalf("expected data_size=1024, got %d", snap.Custom["data_size"])
	}
}

func TestUpdateSerialMonitor(t *testing.T) {
	m := New()
	m.UpdateSerialMonitor(3, 99, time.Now())
	snap := m.Snapshot()
	if snap.Counters[Records] != 3 {
		t.Fatalf("expected Records=3, got %d", snap.Counters[Records])
	}
	if snap.Counters[SerialWrites] != 3 {
		t.Fatalf("expected SerialWrites=3, got %d", snap.Counters[SerialWrites])
	}
}

func TestAddCounterChaining(t *testing.T) {
	m := New()
	m.AddCounter(BufferSize, 5).AddCounter(SinkedCount, 2)
	snap := m.Snapshot()
	if snap.Counters[BufferSize] != 5 || snap.Counters[SinkedCount] != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
