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

// Package redis implements the Raw passthrough sinker: unlike the
// row-batch sinkers, it never decodes a RowData, it replays each
// RedisEntry's wire-format command directly against a target Redis
// server: forward the command, don't interpret it.
package redis

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
	"github.com/dtstream/dtstream/internal/rerror"
)

// pingCmd is dropped rather than replayed: it is the source
// connection's own keepalive, not a mutation.
const pingCmd = "PING"

// Sinker replays RedisEntry commands against one target client.
type Sinker struct {
	Client  *goredis.Client
	Monitor *monitor.Monitor
}

// New returns a Sinker bound to client.
func New(client *goredis.Client, mon *monitor.Monitor) *Sinker {
	return &Sinker{Client: client, Monitor: mon}
}

// SinkDml is a no-op: this sinker only ever receives Raw entries.
func (s *Sinker) SinkDml(data []meta.RowData) error { return nil }

// SinkDdl is a no-op for the same reason.
func (s *Sinker) SinkDdl(data []meta.DdlData) error { return nil }

// SinkRaw replays every non-keepalive entry's command in order.
func (s *Sinker) SinkRaw(data []meta.DtData) error {
	if len(data) == 0 {
		return nil
	}
	ctx := context.Background()
	start := time.Now()
	dataSize := 0
	count := 0

	for _, d := range data {
		entry := d.Redis
		if !entry.IsRawCmd && strings.EqualFold(entry.CmdName, pingCmd) {
			continue
		}
		args, err := parseRespArgs(entry.Raw)
		if err != nil {
			return rerror.NewSinkError("redis", err.Error())
		}
		if len(args) == 0 {
			continue
		}
		if err := s.Client.Do(ctx, args...).Err(); err != nil && err != goredis.Nil {
			return rerror.NewSinkError("redis", "failed replaying "+entry.CmdName+": "+err.Error())
		}
		dataSize += len(entry.Raw)
		count++
	}

	if s.Monitor != nil && count > 0 {
		s.Monitor.UpdateBatchMonitor(count, dataSize, start)
	}
	return nil
}

// RefreshMeta is a no-op: Raw replay carries no column metadata.
func (s *Sinker) RefreshMeta(data []meta.DdlData) error { return nil }

// Close closes the target client.
func (s *Sinker) Close() error { return s.Client.Close() }

// parseRespArgs decodes a single RESP array-of-bulk-strings command
// (the format source-side Redis CDC captures a command in) into the
// variadic argument list go-redis's Do expects.
func parseRespArgs(raw []byte) ([]interface{}, error) {
	r := bufio.NewReader(bytes.NewReader(raw))
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '*' {
		return nil, rerror.NewUnexpected("redis raw command missing RESP array header")
	}
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return nil, rerror.NewUnexpected("redis raw command has invalid array length: " + err.Error())
	}

	args := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		head, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if len(head) == 0 || head[0] != '$' {
			return nil, rerror.NewUnexpected("redis raw command missing bulk string header")
		}
		size, err := strconv.Atoi(string(head[1:]))
		if err != nil {
			return nil, rerror.NewUnexpected("redis raw command has invalid bulk length: " + err.Error())
		}
		buf := make([]byte, size)
		if _, err := readFull(r, buf); err != nil {
			return nil, err
		}
		if _, err := readLine(r); err != nil { // trailing CRLF
			return nil, err
		}
		args = append(args, string(buf))
	}
	return args, nil
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, rerror.NewUnexpected("redis raw command truncated: " + err.Error())
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		if err != nil {
			return n, rerror.NewUnexpected("redis raw command truncated: " + err.Error())
		}
		n += m
	}
	return n, nil
}
