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

package syncer

import (
	"testing"

	"github.com/dtstream/dtstream/internal/position"
)

func TestNewSyncerStartsZero(t *testing.T) {
	s := New()
	if !s.Received().IsZero() || !s.Committed().IsZero() {
		t.Fatalf("expected a new Syncer to start with zero-value positions")
	}
}

func TestSetReceivedAndCommittedAreIndependent(t *testing.T) {
	s := New()
	s.SetReceived(position.LSN(10))
	if position.Compare(s.Received(), position.LSN(10)) != 0 {
		t.Fatalf("expected Received to reflect the last SetReceived call")
	}
	if !s.Committed().IsZero() {
		t.Fatalf("expected Committed to remain zero until explicitly set")
	}

	s.SetCommitted(position.LSN(5))
	if position.Compare(s.Committed(), position.LSN(5)) != 0 {
		t.Fatalf("expected Committed to reflect the last SetCommitted call")
	}
	if position.Compare(s.Received(), position.LSN(10)) != 0 {
		t.Fatalf("expected Received to be unaffected by SetCommitted")
	}
}
