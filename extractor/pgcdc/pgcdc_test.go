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

package pgcdc

import (
	"testing"

	"github.com/jackc/pglogrepl"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/position"
	"github.com/dtstream/dtstream/internal/queue"
)

func newBoundExtractor(whereCols []string) (*Extractor, int32) {
	mgr := meta.NewManager()
	tbMeta := &meta.TbMeta{
		Schema:    "public",
		Tb:        "accounts",
		Cols:      []string{"id", "balance"},
		WhereCols: whereCols,
		ColTypeMap: map[string]meta.ColType{
			"id":      meta.ColTypeLong,
			"balance": meta.ColTypeLong,
		},
	}
	mgr.BindOID(1, tbMeta)
	return &Extractor{Manager: mgr}, 1
}

func TestDecodeDeleteWithoutTupleOrWhereColsIsDecodeError(t *testing.T) {
	e, oid := newBoundExtractor(nil)
	msg := &pglogrepl.DeleteMessage{
		RelationID:   uint32(oid),
		OldTupleType: 0,
		OldTuple:     nil,
	}
	q := queue.New[meta.DtItem](4)
	err := e.decodeDelete(msg, position.LSN(1), q)
	if err == nil {
		t.Fatalf("expected a decode error for a tupleless delete with no where_cols")
	}
}

func TestDecodeDeleteFallsBackToWhereColsWhenNoTuple(t *testing.T) {
	e, oid := newBoundExtractor([]string{"id"})
	msg := &pglogrepl.DeleteMessage{
		RelationID:   uint32(oid),
		OldTupleType: 0,
		OldTuple:     nil,
	}
	q := queue.New[meta.DtItem](4)
	if err := e.decodeDelete(msg, position.LSN(1), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := q.DrainAll(0)
	if len(items) != 1 {
		t.Fatalf("expected one row pushed, got %d", len(items))
	}
	if items[0].Data.Row.Type != meta.RowTypeDelete {
		t.Fatalf("expected a delete row")
	}
}

func TestDecodeDeleteUnknownOIDIsMetadataError(t *testing.T) {
	e := &Extractor{Manager: meta.NewManager()}
	msg := &pglogrepl.DeleteMessage{RelationID: 999}
	q := queue.New[meta.DtItem](4)
	if err := e.decodeDelete(msg, position.LSN(1), q); err == nil {
		t.Fatalf("expected a metadata error for an unbound relation OID")
	}
}

func TestDecodeCommitPushesCommitItemWithCommitLSN(t *testing.T) {
	e := &Extractor{}
	msg := &pglogrepl.CommitMessage{CommitLSN: 0x2C280E70}
	q := queue.New[meta.DtItem](4)
	if err := e.decodeCommit(msg, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := q.DrainAll(0)
	if len(items) != 1 {
		t.Fatalf("expected one commit item pushed, got %d", len(items))
	}
	if items[0].Data.Kind != meta.DtDataCommit {
		t.Fatalf("expected a DtDataCommit item, got kind %v", items[0].Data.Kind)
	}
	if position.Compare(items[0].Position, position.LSN(0x2C280E70)) != 0 {
		t.Fatalf("expected commit position to carry the message's CommitLSN, got %v", items[0].Position)
	}
}
