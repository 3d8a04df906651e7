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

package postgres

import (
	"testing"

	"github.com/dtstream/dtstream/internal/meta"
)

func TestContainsString(t *testing.T) {
	xs := []string{"id", "email"}
	if !containsString(xs, "email") {
		t.Fatalf("expected email to be found")
	}
	if containsString(xs, "name") {
		t.Fatalf("expected name not to be found")
	}
}

func TestScalarNoneIsNil(t *testing.T) {
	if scalar(meta.None) != nil {
		t.Fatalf("expected None to scalarize to nil")
	}
}

func TestWhereColsResolvesFromManager(t *testing.T) {
	mgr := meta.NewManager()
	tbMeta := mgr.Get("public", "accounts")
	tbMeta.PrimaryKey = []string{"id", "region"}
	tbMeta.Cols = []string{"id", "region", "name"}
	tbMeta.Resolve()

	s := &Sinker{Manager: mgr}
	row := meta.RowData{Schema: "public", Tb: "accounts"}
	got := s.whereCols(row)
	if len(got) != 2 || got[0] != "id" || got[1] != "region" {
		t.Fatalf("expected composite where cols [id region], got %v", got)
	}
}

func TestWhereColsWithNilManagerReturnsEmpty(t *testing.T) {
	s := &Sinker{}
	if got := s.whereCols(meta.RowData{Schema: "public", Tb: "accounts"}); got != nil {
		t.Fatalf("expected nil where cols with no Manager, got %v", got)
	}
}
