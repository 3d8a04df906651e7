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

package sinker

import (
	"errors"
	"testing"

	"github.com/dtstream/dtstream/internal/meta"
)

type stubSinker struct {
	calls []string
}

func (s *stubSinker) SinkDml(data []meta.RowData) error     { s.calls = append(s.calls, "SinkDml"); return nil }
func (s *stubSinker) SinkDdl(data []meta.DdlData) error     { s.calls = append(s.calls, "SinkDdl"); return nil }
func (s *stubSinker) SinkRaw(data []meta.DtData) error      { s.calls = append(s.calls, "SinkRaw"); return nil }
func (s *stubSinker) RefreshMeta(data []meta.DdlData) error { s.calls = append(s.calls, "RefreshMeta"); return nil }
func (s *stubSinker) Close() error                          { return nil }

func TestWithChaosZeroProbReturnsDelegateUnwrapped(t *testing.T) {
	stub := &stubSinker{}
	if WithChaos(stub, 0) != Sinker(stub) {
		t.Fatalf("expected prob<=0 to return the delegate unwrapped")
	}
}

func TestWithChaosAlwaysFailsAtProbOne(t *testing.T) {
	stub := &stubSinker{}
	wrapped := WithChaos(stub, 1)

	if err := wrapped.SinkDml(nil); !errors.Is(err, ErrChaos) {
		t.Fatalf("expected ErrChaos from SinkDml, got %v", err)
	}
	if err := wrapped.SinkDdl(nil); !errors.Is(err, ErrChaos) {
		t.Fatalf("expected ErrChaos from SinkDdl, got %v", err)
	}
	if err := wrapped.SinkRaw(nil); !errors.Is(err, ErrChaos) {
		t.Fatalf("expected ErrChaos from SinkRaw, got %v", err)
	}
	if err := wrapped.RefreshMeta(nil); !errors.Is(err, ErrChaos) {
		t.Fatalf("expected ErrChaos from RefreshMeta, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected the delegate never to be called when chaos always triggers, got %v", stub.calls)
	}
}

func TestWithChaosClosesAlwaysDelegates(t *testing.T) {
	stub := &stubSinker{}
	wrapped := WithChaos(stub, 1)
	if err := wrapped.Close(); err != nil {
		t.Fatalf("expected Close to always delegate without chaos, got %v", err)
	}
}
