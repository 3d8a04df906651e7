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

import "github.com/dtstream/dtstream/internal/position"

// DtDataKind discriminates the DtData tagged union.
type DtDataKind int

const (
	DtDataDml DtDataKind = iota
	DtDataDdl
	DtDataBegin
	DtDataCommit
	DtDataRedis
)

// RedisEntry is a raw, opaque command blob forwarded to a Redis
// sinker without row-level decoding.
type RedisEntry struct {
	// CmdName is the command name (e.g. "SET", "PING"), used by the
	// pipeline driver to drop keepalive PINGs from the Raw stream.
	CmdName string
	// Raw holds the full, unparsed command payload.
	Raw []byte
	// IsRawCmd indicates the entry bypasses command-name based
	// filtering entirely.
	IsRawCmd bool
}

// DtData is a tagged union over the payload kinds that move through
// the bounded queue: row-level, schema-level, transaction delimiters,
// and opaque Redis commands.
type DtData struct {
	Kind DtDataKind

	Row   RowData
	Ddl   DdlData
	Redis RedisEntry
}

// DtItem pairs a DtData payload with the source position it was read
// at, and an optional origin-node tag used to break replication loops
// in multi-hop topologies.
type DtItem struct {
	Data           DtData
	Position       position.Position
	DataOriginNode string
}
