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

// Package meta holds the data dictionary and row-level types shared
// between extractors and sinkers: column values, table metadata, row
// mutations, and DDL events.
package meta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ColValue is a sum type over the SQL scalar kinds the engine moves.
// Exactly one field is meaningful, selected by Kind.
type ColValue struct {
	Kind ColValueKind

	Tiny              int8
	UnsignedTiny      uint8
	Short             int16
	UnsignedShort     uint16
	Long              int32
	UnsignedLong      uint32
	LongLong          int64
	UnsignedLongLong  uint64
	Float             float32
	Double            float64
	Decimal           string
	Time              time.Time
	Date              time.Time
	DateTime          time.Time
	Timestamp         time.Time
	Year              uint16
	Blob              []byte
	Bit               uint64
	Enum              string
	Set               string
	Json              []byte
}

// ColValueKind discriminates the ColValue union.
type ColValueKind int

const (
	// KindNone represents SQL NULL.
	KindNone ColValueKind = iota
	KindTiny
	KindUnsignedTiny
	KindShort
	KindUnsignedShort
	KindLong
	KindUnsignedLong
	KindLongLong
	KindUnsignedLongLong
	KindFloat
	KindDouble
	KindDecimal
	KindTime
	KindDate
	KindDateTime
	KindTimestamp
	KindYear
	KindBlob
	KindBit
	KindEnum
	KindSet
	KindJSON
)

// None is the ColValue representing SQL NULL.
var None = ColValue{Kind: KindNone}

// IsNone reports whether v represents SQL NULL.
func (v ColValue) IsNone() bool { return v.Kind == KindNone }

// String renders v for logging and for JSON-ish serialization paths
// that expect plain scalars (e.g. the StarRocks stream-load body
// construction in sinker/starrocks).
func (v ColValue) String() string {
	switch v.Kind {
	case KindNone:
		return "<nil>"
	case KindTiny:
		return strconv.FormatInt(int64(v.Tiny), 10)
	case KindUnsignedTiny:
		return strconv.FormatUint(uint64(v.UnsignedTiny), 10)
	case KindShort:
		return strconv.FormatInt(int64(v.Short), 10)
	case KindUnsignedShort:
		return strconv.FormatUint(uint64(v.UnsignedShort), 10)
	case KindLong:
		return strconv.FormatInt(int64(v.Long), 10)
	case KindUnsignedLong:
		return strconv.FormatUint(uint64(v.UnsignedLong), 10)
	case KindLongLong:
		return strconv.FormatInt(v.LongLong, 10)
	case KindUnsignedLongLong:
		return strconv.FormatUint(v.UnsignedLongLong, 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.Float), 'f', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.Double, 'f', -1, 64)
	case KindDecimal:
		return v.Decimal
	case KindTime:
		return v.Time.Format("15:04:05.999999")
	case KindDate:
		return v.Date.Format("2006-01-02")
	case KindDateTime:
		return v.DateTime.Format("2006-01-02 15:04:05.999999")
	case KindTimestamp:
		return v.Timestamp.UTC().Format("2006-01-02 15:04:05.999999")
	case KindYear:
		return strconv.FormatUint(uint64(v.Year), 10)
	case KindBlob:
		return string(v.Blob)
	case KindBit:
		return strconv.FormatUint(v.Bit, 10)
	case KindEnum:
		return v.Enum
	case KindSet:
		return v.Set
	case KindJSON:
		return string(v.Json)
	default:
		return fmt.Sprintf("<colvalue kind=%d>", v.Kind)
	}
}

// MarshalJSON implements json.Marshaler so that RowData values can be
// embedded directly in a StarRocks stream-load body.
func (v ColValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNone:
		return []byte("null"), nil
	case KindTiny, KindUnsignedTiny, KindShort, KindUnsignedShort,
		KindLong, KindUnsignedLong, KindLongLong, KindUnsignedLongLong,
		KindFloat, KindDouble, KindYear, KindBit:
		return []byte(v.String()), nil
	case KindJSON:
		if len(v.Json) == 0 {
			return []byte("null"), nil
		}
		return v.Json, nil
	default:
		return json.Marshal(v.String())
	}
}
