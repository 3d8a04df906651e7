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
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dtstream/dtstream/internal/meta"
)

// pgTypeOIDToColType maps a PostgreSQL type OID, as carried on a
// Relation message, to the engine's dialect-independent ColType,
// built from pgx's pgtype OID table instead of a runtime pg_type
// query.
func pgTypeOIDToColType(oid uint32) meta.ColType {
	switch oid {
	case pgtype.BoolOID:
		return meta.ColTypeTiny
	case pgtype.Int2OID:
		return meta.ColTypeShort
	case pgtype.Int4OID:
		return meta.ColTypeLong
	case pgtype.Int8OID:
		return meta.ColTypeLongLong
	case pgtype.Float4OID:
		return meta.ColTypeFloat
	case pgtype.Float8OID:
		return meta.ColTypeDouble
	case pgtype.NumericOID:
		return meta.ColTypeDecimal
	case pgtype.DateOID:
		return meta.ColTypeDate
	case pgtype.TimeOID:
		return meta.ColTypeTime
	case pgtype.TimestampOID, pgtype.TimestamptzOID:
		return meta.ColTypeDateTime
	case pgtype.ByteaOID:
		return meta.ColTypeBlob
	case pgtype.JSONOID, pgtype.JSONBOID:
		return meta.ColTypeJSON
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return meta.ColTypeString
	default:
		return meta.ColTypeString
	}
}

// decodePgColValue parses the text-format wal value for colType.
func decodePgColValue(colType meta.ColType, raw []byte) (meta.ColValue, error) {
	text := string(raw)

	switch colType {
	case meta.ColTypeTiny:
		return meta.ColValue{Kind: meta.KindTiny, Tiny: boolToTiny(text)}, nil
	case meta.ColTypeShort:
		v, err := strconv.ParseInt(text, 10, 16)
		return meta.ColValue{Kind: meta.KindShort, Short: int16(v)}, err
	case meta.ColTypeLong:
		v, err := strconv.ParseInt(text, 10, 32)
		return meta.ColValue{Kind: meta.KindLong, Long: int32(v)}, err
	case meta.ColTypeLongLong:
		v, err := strconv.ParseInt(text, 10, 64)
		return meta.ColValue{Kind: meta.KindLongLong, LongLong: v}, err
	case meta.ColTypeFloat:
		v, err := strconv.ParseFloat(text, 32)
		return meta.ColValue{Kind: meta.KindFloat, Float: float32(v)}, err
	case meta.ColTypeDouble:
		v, err := strconv.ParseFloat(text, 64)
		return meta.ColValue{Kind: meta.KindDouble, Double: v}, err
	case meta.ColTypeDecimal:
		return meta.ColValue{Kind: meta.KindDecimal, Decimal: text}, nil
	case meta.ColTypeDate:
		t, err := time.Parse("2006-01-02", text)
		return meta.ColValue{Kind: meta.KindDate, Date: t}, err
	case meta.ColTypeTime:
		t, err := time.Parse("15:04:05.999999", text)
		return meta.ColValue{Kind: meta.KindTime, Time: t}, err
	case meta.ColTypeDateTime:
		t, err := parseTimestamp(text)
		return meta.ColValue{Kind: meta.KindDateTime, DateTime: t}, err
	case meta.ColTypeBlob:
		return meta.ColValue{Kind: meta.KindBlob, Blob: decodeBytea(text)}, nil
	case meta.ColTypeJSON:
		return meta.ColValue{Kind: meta.KindJSON, Json: raw}, nil
	default:
		return meta.ColValue{Kind: meta.KindBlob, Blob: raw}, nil
	}
}

func boolToTiny(text string) int8 {
	if text == "t" || text == "true" {
		return 1
	}
	return 0
}

// parseTimestamp tries both with- and without-timezone layouts, since
// a Relation column carrying timestamptz and a plain timestamp both
// map to ColTypeDateTime.
func parseTimestamp(text string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05.999999-07", text); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05.999999", text)
}

// decodeBytea strips pgoutput's "\x"-prefixed hex encoding, falling
// back to the raw bytes for any other representation.
func decodeBytea(text string) []byte {
	if len(text) >= 2 && text[0] == '\\' && text[1] == 'x' {
		out := make([]byte, 0, (len(text)-2)/2)
		hex := text[2:]
		for i := 0; i+1 < len(hex); i += 2 {
			var b byte
			for _, c := range hex[i : i+2] {
				b <<= 4
				switch {
				case c >= '0' && c <= '9':
					b |= byte(c - '0')
				case c >= 'a' && c <= 'f':
					b |= byte(c-'a') + 10
				case c >= 'A' && c <= 'F':
					b |= byte(c-'A') + 10
				}
			}
			out = append(out, b)
		}
		return out
	}
	return []byte(text)
}
