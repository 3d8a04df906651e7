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

import "fmt"

// TbMeta describes the column set and keys of one source table.
// OrderCol and WhereCols are derived once, when the
// table is first resolved, and refreshed whenever a DDL or CDC
// relation event touches the table.
type TbMeta struct {
	Schema string
	Tb     string

	// Cols is the authoritative column order. In CDC mode this order
	// comes from the source's relation-description event and is
	// re-assigned on every Relation message; in
	// snapshot mode it comes from the source's information-schema
	// column order.
	Cols []string

	ColTypeMap map[string]ColType
	ColMetaMap map[string]ColMeta

	// PrimaryKey holds the ordered primary-key columns, empty if the
	// table has none.
	PrimaryKey []string
	// UniqueKeys holds each unique-key's ordered columns; UniqueKeys[0]
	// is used as the fallback order/where column set when there is no
	// primary key.
	UniqueKeys [][]string

	// OrderCol is the column used to paginate a slice scan: the single
	// PK column if the PK is one column, else the column of the first
	// UK if that key has exactly one column, else empty (triggers a
	// full, unordered scan).
	OrderCol string

	// WhereCols are the columns used to build a WHERE clause when
	// replaying an Update/Delete against a target that is not itself
	// CDC-sourced: PK columns, else the first UK's columns, else every
	// column as a last resort.
	WhereCols []string
}

// FullName renders "schema.tb" for logging and SQL text.
func (m *TbMeta) FullName() string { return fmt.Sprintf("%s.%s", m.Schema, m.Tb) }

// Resolve derives OrderCol and WhereCols from PrimaryKey/UniqueKeys.
// Call this after PrimaryKey, UniqueKeys, and Cols are populated.
func (m *TbMeta) Resolve() {
	switch {
	case len(m.PrimaryKey) == 1:
		m.OrderCol = m.PrimaryKey[0]
	case len(m.UniqueKeys) > 0 && len(m.UniqueKeys[0]) == 1:
		m.OrderCol = m.UniqueKeys[0][0]
	default:
		m.OrderCol = ""
	}

	switch {
	case len(m.PrimaryKey) > 0:
		m.WhereCols = append([]string(nil), m.PrimaryKey...)
	case len(m.UniqueKeys) > 0:
		m.WhereCols = append([]string(nil), m.UniqueKeys[0]...)
	default:
		m.WhereCols = append([]string(nil), m.Cols...)
	}
}

// Manager owns per-table metadata for one source. Extractors own a
// Manager instance; sinkers carry their own target-side Manager,
// refreshed by DDL events.
type Manager struct {
	byName map[string]*TbMeta
	byOID  map[int32]*TbMeta
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]*TbMeta),
		byOID:  make(map[int32]*TbMeta),
	}
}

func key(schema, tb string) string { return schema + "." + tb }

// Get returns the TbMeta for (schema, tb), creating an empty one on
// first access so that CDC relation events have somewhere to record
// column order before a full metadata fetch has occurred.
func (m *Manager) Get(schema, tb string) *TbMeta {
	k := key(schema, tb)
	if existing, ok := m.byName[k]; ok {
		return existing
	}
	fresh := &TbMeta{Schema: schema, Tb: tb}
	m.byName[k] = fresh
	return fresh
}

// Put installs tbMeta under (schema, tb), overwriting any previous
// entry. Used after a snapshot extractor or DDL handler fetches full
// metadata for a table.
func (m *Manager) Put(tbMeta *TbMeta) {
	m.byName[key(tbMeta.Schema, tbMeta.Tb)] = tbMeta
}

// BindOID associates a CDC source's opaque relation OID with tbMeta,
// so that subsequent Insert/Update/Delete events (which only carry the
// OID) can resolve metadata without a name lookup.
func (m *Manager) BindOID(oid int32, tbMeta *TbMeta) {
	m.byOID[oid] = tbMeta
	m.Put(tbMeta)
}

// GetByOID resolves metadata bound by a prior BindOID call. The second
// return value is false if the OID is unknown, which the CDC
// extractor surfaces as a MetadataError.
func (m *Manager) GetByOID(oid int32) (*TbMeta, bool) {
	tbMeta, ok := m.byOID[oid]
	return tbMeta, ok
}
