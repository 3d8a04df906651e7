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

// DdlType enumerates the schema-level change kinds the engine
// recognizes.
type DdlType int

const (
	DdlTypeUnknown DdlType = iota
	DdlTypeCreateDatabase
	DdlTypeDropDatabase
	DdlTypeCreateTable
	DdlTypeDropTable
	DdlTypeTruncateTable
	DdlTypeRenameTable
	DdlTypeAlterDatabase
	DdlTypeAlterTable
)

// String renders the DdlType as a lower_snake_case token for log
// lines and wire encodings.
func (t DdlType) String() string {
	switch t {
	case DdlTypeCreateDatabase:
		return "create_database"
	case DdlTypeDropDatabase:
		return "drop_database"
	case DdlTypeCreateTable:
		return "create_table"
	case DdlTypeDropTable:
		return "drop_table"
	case DdlTypeTruncateTable:
		return "truncate_table"
	case DdlTypeRenameTable:
		return "rename_table"
	case DdlTypeAlterDatabase:
		return "alter_database"
	case DdlTypeAlterTable:
		return "alter_table"
	default:
		return "unknown"
	}
}

// DdlData is a schema-level change event.
type DdlData struct {
	Schema string
	Tb     string
	Type   DdlType
	// Statement is the original DDL text from the source, when
	// available, replayed verbatim against targets that speak the same
	// SQL dialect as the source.
	Statement string
}
