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

// ColType names the wire type of a column, independent of source
// dialect. It is used both to choose a decode routine (snapshot, CDC)
// and to key the CDC extractor's per-relation type-OID registry.
type ColType int

const (
	ColTypeUnknown ColType = iota
	ColTypeTiny
	ColTypeUnsignedTiny
	ColTypeShort
	ColTypeUnsignedShort
	ColTypeLong
	ColTypeUnsignedLong
	ColTypeLongLong
	ColTypeUnsignedLongLong
	ColTypeFloat
	ColTypeDouble
	ColTypeDecimal
	ColTypeTime
	ColTypeDate
	ColTypeDateTime
	ColTypeTimestamp
	ColTypeYear
	ColTypeString
	ColTypeBinary
	ColTypeVarBinary
	ColTypeBlob
	ColTypeBit
	ColTypeSet
	ColTypeEnum
	ColTypeJSON
)

// ColMeta describes one column: its wire type plus the attributes
// needed to decode and replay it.
type ColMeta struct {
	Name     string
	Type     ColType
	Length   int
	Charset  string
	Nullable bool
}
