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

package meta

// RdbFilter drops events by (schema, table, row type) before they are
// enqueued. A zero-value RdbFilter passes
// everything through.
type RdbFilter struct {
	// dbFilter blocks an entire schema.
	dbFilter map[string]bool
	// tbFilter blocks a specific schema.table.
	tbFilter map[string]bool
	// rowTypeFilter blocks a specific schema.table + RowType.
	rowTypeFilter map[string]map[RowType]bool
}

// NewRdbFilter returns an empty filter that passes everything.
func NewRdbFilter() *RdbFilter {
	return &RdbFilter{
		dbFilter:      make(map[string]bool),
		tbFilter:      make(map[string]bool),
		rowTypeFilter: make(map[string]map[RowType]bool),
	}
}

// IgnoreSchema drops every event for schema.
func (f *RdbFilter) IgnoreSchema(schema string) { f.dbFilter[schema] = true }

// IgnoreTable drops every event for schema.tb.
func (f *RdbFilter) IgnoreTable(schema, tb string) { f.tbFilter[key(schema, tb)] = true }

// IgnoreRowType drops events for schema.tb matching rowType.
func (f *RdbFilter) IgnoreRowType(schema, tb string, rowType RowType) {
	k := key(schema, tb)
	if f.rowTypeFilter[k] == nil {
		f.rowTypeFilter[k] = make(map[RowType]bool)
	}
	f.rowTypeFilter[k][rowType] = true
}

// Filter reports whether the event for (schema, tb, rowType) should be
// dropped. A dropped event does not advance last_received.
func (f *RdbFilter) Filter(schema, tb string, rowType RowType) bool {
	if f == nil {
		return false
	}
	if f.dbFilter[schema] {
		return true
	}
	k := key(schema, tb)
	if f.tbFilter[k] {
		return true
	}
	if byType, ok := f.rowTypeFilter[k]; ok && byType[rowType] {
		return true
	}
	return false
}
