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

package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dtstream/dtstream/internal/meta"
)

func TestWriteModelDeleteWithoutKeyColumnsFails(t *testing.T) {
	s := &Sinker{}
	row := meta.RowData{
		Schema: "public",
		Tb:     "accounts",
		Type:   meta.RowTypeDelete,
		Before: map[string]meta.ColValue{"id": {Kind: meta.KindLong, Long: 1}},
	}
	// no Manager set, so whereCols falls back to nil; exercise the
	// explicit no-key-columns error path instead of a real filter.
	if _, err := s.writeModel(row); err == nil {
		t.Fatalf("expected an error when no key columns are available to address the document")
	}
}

func TestWriteModelInsertIsReplaceOneUpsert(t *testing.T) {
	mgr := meta.NewManager()
	tbMeta := mgr.Get("public", "accounts")
	tbMeta.PrimaryKey = []string{"id"}
	tbMeta.Cols = []string{"id", "name"}
	tbMeta.Resolve()

	s := &Sinker{Manager: mgr}
	row := meta.RowData{
		Schema: "public",
		Tb:     "accounts",
		Type:   meta.RowTypeInsert,
		After: map[string]meta.ColValue{
			"id":   {Kind: meta.KindLong, Long: 1},
			"name": {Kind: meta.KindEnum, Enum: "alice"},
		},
	}
	model, err := s.writeModel(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := model.(*mongo.ReplaceOneModel); !ok {
		t.Fatalf("expected an insert to produce a ReplaceOneModel, got %T", model)
	}
}

func TestKeyFilterUsesWhereCols(t *testing.T) {
	s := &Sinker{}
	row := meta.RowData{Schema: "public", Tb: "accounts"}
	cols := map[string]meta.ColValue{"id": {Kind: meta.KindLong, Long: 9}}
	filter, err := s.keyFilter(row, cols, []string{"id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := bson.M{"id": "9"}
	if filter["id"] != want["id"] {
		t.Fatalf("expected filter id=9, got %v", filter)
	}
}

func TestScalarNoneIsNil(t *testing.T) {
	if scalar(meta.None) != nil {
		t.Fatalf("expected None to scalarize to nil")
	}
}
