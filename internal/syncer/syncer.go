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

// Package syncer holds the shared, mutex-guarded record of received
// and committed positions that external checkpoint readers consult.
package syncer

import (
	"sync"

	"github.com/dtstream/dtstream/internal/position"
)

// Syncer is written by the pipeline driver and read by whatever
// external mechanism persists checkpoints (e.g. a CLI status command,
// or the CDC extractor's own standby-status-update reply).
type Syncer struct {
	mu                sync.Mutex
	receivedPosition  position.Position
	committedPosition position.Position
}

// New returns a Syncer with zero-value positions.
func New() *Syncer { return &Syncer{} }

// SetReceived records the newest item drained this tick.
func (s *Syncer) SetReceived(p position.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receivedPosition = p
}

// Received returns the most recently drained position.
func (s *Syncer) Received() position.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receivedPosition
}

// SetCommitted records the newest item whose source transaction has
// committed. Invariant: committed <= received at all
// times; callers are expected to only advance Committed to a position
// that was previously observed as Received.
func (s *Syncer) SetCommitted(p position.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committedPosition = p
}

// Committed returns the most recently committed position, used by the
// CDC extractor's PrimaryKeepAlive handler to build a standby-status
// reply.
func (s *Syncer) Committed() position.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committedPosition
}
