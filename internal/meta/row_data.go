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

import "github.com/pkg/errors"

// RowType discriminates a row-level mutation.
type RowType int

const (
	RowTypeInsert RowType = iota
	RowTypeUpdate
	RowTypeDelete
)

// String renders the row type for logging and for the StarRocks
// __op header.
func (t RowType) String() string {
	switch t {
	case RowTypeInsert:
		return "insert"
	case RowTypeUpdate:
		return "update"
	case RowTypeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// RowData is the central record moved through the pipeline.
// Before/After presence is governed by RowType:
//   - Insert: After present, Before absent.
//   - Delete: Before present, After absent.
//   - Update: both present; Before keys restricted to the table's
//     where columns.
type RowData struct {
	Schema string
	Tb     string
	Type   RowType

	Before map[string]ColValue
	After  map[string]ColValue

	// DataSize is an estimate of the row's encoded size in bytes,
	// accumulated into the monitor's "data_size" custom counter.
	DataSize int
}

// Validate enforces the before/after presence invariant. The
// pipeline driver calls this in sinkDml, on the boundary
// between fetchDml's decode and the transform/parallelizer replay
// path, so a malformed row aborts the tick as a DecodeError instead of
// reaching a sinker.
func (r RowData) Validate() error {
	switch r.Type {
	case RowTypeInsert:
		if r.After == nil || r.Before != nil {
			return errors.Errorf("insert row for %s.%s must have After and no Before", r.Schema, r.Tb)
		}
	case RowTypeUpdate:
		if r.After == nil || r.Before == nil {
			return errors.Errorf("update row for %s.%s must have both Before and After", r.Schema, r.Tb)
		}
	case RowTypeDelete:
		if r.Before == nil || r.After != nil {
			return errors.Errorf("delete row for %s.%s must have Before and no After", r.Schema, r.Tb)
		}
	default:
		return errors.Errorf("row for %s.%s has unknown row type %d", r.Schema, r.Tb, r.Type)
	}
	return nil
}

// PrimaryKeyValues extracts the values of cols, preferring After (for
// Insert/Update) and falling back to Before (for Delete). Used by the
// Hash parallelizer to compute a routing key.
func (r RowData) PrimaryKeyValues(cols []string) []ColValue {
	src := r.After
	if src == nil {
		src = r.Before
	}
	vals := make([]ColValue, len(cols))
	for i, c := range cols {
		vals[i] = src[c]
	}
	return vals
}
