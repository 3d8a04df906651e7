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

package pipeline

import "testing"

func TestPreflightRejectsNonPositiveIntervals(t *testing.T) {
	cases := []Config{
		{BatchSinkIntervalSecs: 0, CheckpointIntervalSecs: 10},
		{BatchSinkIntervalSecs: 3, CheckpointIntervalSecs: 0},
		{BatchSinkIntervalSecs: -1, CheckpointIntervalSecs: 10},
	}
	for i, c := range cases {
		if err := c.Preflight(); err == nil {
			t.Fatalf("case %d: expected an error for %+v", i, c)
		}
	}
}

func TestDurationHelpersConvertSecondsToDuration(t *testing.T) {
	c := Config{BatchSinkIntervalSecs: 3, CheckpointIntervalSecs: 10}
	if err := c.Preflight(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BatchSinkInterval().Seconds() != 3 {
		t.Fatalf("expected a 3s batch sink interval, got %v", c.BatchSinkInterval())
	}
	if c.CheckpointInterval().Seconds() != 10 {
		t.Fatalf("expected a 10s checkpoint interval, got %v", c.CheckpointInterval())
	}
}
