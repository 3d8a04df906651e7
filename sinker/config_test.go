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

import "testing"

func TestBatchConfigPreflightRejectsNonPositive(t *testing.T) {
	c := &BatchConfig{BatchSize: 0}
	if err := c.Preflight(); err == nil {
		t.Fatalf("expected an error for a non-positive batch size")
	}
}

func TestBatchConfigPreflightAcceptsPositive(t *testing.T) {
	c := &BatchConfig{BatchSize: 500}
	if err := c.Preflight(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
