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

package snapshot

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/queue"
)

func TestDecodeColValueNull(t *testing.T) {
	v, err := decodeColValue(nil, meta.ColMeta{Type: meta.ColTypeLong})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsNone() {
		t.Fatalf("expected a nil raw value to decode to None, got %+v", v)
	}
}

func TestDecodeColValueNumericKinds(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ct   meta.ColType
		want meta.ColValue
	}{
		{"long", "42", meta.ColTypeLong, meta.ColValue{Kind: meta.KindLong, Long: 42}},
		{"unsignedLongLong", "18446744073709551615", meta.ColTypeUnsignedLongLong,
			meta.ColValue{Kind: meta.KindUnsignedLongLong, UnsignedLongLong: 18446744073709551615}},
		{"double", "3.5", meta.ColTypeDouble, meta.ColValue{Kind: meta.KindDouble, Double: 3.5}},
		{"decimal", "12.340", meta.ColTypeDecimal, meta.ColValue{Kind: meta.KindDecimal, Decimal: "12.340"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := decodeColValue(sql.RawBytes(c.raw), meta.ColMeta{Type: c.ct})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != c.want.Kind {
				t.Fatalf("got kind %v, want %v", got.Kind, c.want.Kind)
			}
			if got.String() != c.want.String() {
				t.Fatalf("got %q, want %q", got.String(), c.want.String())
			}
		})
	}
}

func TestDecodeColValueBlobPreservesBytesIndependentOfRawBuffer(t *testing.T) {
	raw := sql.RawBytes("hello")
	v, err := decodeColValue(raw, meta.ColMeta{Type: meta.ColTypeBlob})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw[0] = 'X' // mutate the underlying buffer, as database/sql reuses it
	if string(v.Blob) != "hello" {
		t.Fatalf("expected decoded blob to be an independent copy, got %q", v.Blob)
	}
}

func TestColValueBindArgRoundTripsScalarKinds(t *testing.T) {
	v := meta.ColValue{Kind: meta.KindLong, Long: 7}
	arg := colValueBindArg(v)
	if arg.(int32) != 7 {
		t.Fatalf("expected bind arg 7, got %v", arg)
	}
}

func TestColValueBindArgFallsBackToString(t *testing.T) {
	v := meta.ColValue{Kind: meta.KindEnum, Enum: "active"}
	arg := colValueBindArg(v)
	if arg.(string) != "active" {
		t.Fatalf("expected bind arg to fall back to String(), got %v", arg)
	}
}

func TestSignalDoneSetsShutdownOnceQueueIsEmpty(t *testing.T) {
	flag := &atomic.Bool{}
	e := &Extractor{Shutdown: flag}
	if err := e.signalDone(context.Background(), queue.New[meta.DtItem](4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !flag.Load() {
		t.Fatalf("expected the shutdown flag to be set once the queue drained")
	}
}

func TestSignalDoneIsNoopWithoutFlag(t *testing.T) {
	e := &Extractor{}
	if err := e.signalDone(context.Background(), queue.New[meta.DtItem](4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
