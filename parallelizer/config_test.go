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

package parallelizer

import "testing"

func TestPreflightRejectsNonPositiveParallelSize(t *testing.T) {
	c := &Config{Strategy: "serial", ParallelSize: 0}
	if err := c.Preflight(); err == nil {
		t.Fatalf("expected an error for a non-positive parallel size")
	}
}

func TestPreflightRejectsUnknownStrategy(t *testing.T) {
	c := &Config{Strategy: "bogus", ParallelSize: 1}
	if err := c.Preflight(); err == nil {
		t.Fatalf("expected an error for an unknown strategy")
	}
}

func TestPreflightAcceptsEachKnownStrategy(t *testing.T) {
	for _, strat := range []string{"serial", "round_robin", "hash"} {
		c := &Config{Strategy: strat, ParallelSize: 2}
		if err := c.Preflight(); err != nil {
			t.Fatalf("strategy %q: unexpected error: %v", strat, err)
		}
	}
}

func TestBuildConstructsMatchingType(t *testing.T) {
	cases := []struct {
		strategy string
		want     string
	}{
		{"serial", "serial"},
		{"round_robin", "round_robin"},
		{"hash", "hash"},
	}
	for _, c := range cases {
		p, err := (&Config{Strategy: c.strategy}).Build([]string{"id"})
		if err != nil {
			t.Fatalf("strategy %q: unexpected error: %v", c.strategy, err)
		}
		if p.Name() != c.want {
			t.Fatalf("strategy %q: got Name() %q, want %q", c.strategy, p.Name(), c.want)
		}
	}
}

func TestBuildRejectsUnknownStrategy(t *testing.T) {
	if _, err := (&Config{Strategy: "nope"}).Build(nil); err == nil {
		t.Fatalf("expected an error building an unknown strategy")
	}
}
