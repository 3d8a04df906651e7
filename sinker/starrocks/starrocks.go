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

// Package starrocks implements a stream-load sinker: Insert/Delete
// batch via JSON stream-load, Update replays one row at a time.
//
// StarRocks's stream-load contract is a plain HTTP PUT, so this
// sinker uses net/http directly rather than introducing an
// otherwise-unneeded client dependency.
package starrocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/sinker"
)

// Sinker replays row batches against one StarRocks FE/BE stream-load
// endpoint.
type Sinker struct {
	Client   *http.Client
	Host     string
	Port     string
	Username string
	Password string

	base sinker.BaseSinker
}

// New returns a Sinker with the given batch size and monitor wired
// into the shared BaseSinker batch-dispatch helper.
func New(host, port, username, password string, batchSize int, mon *monitor.Monitor) *Sinker {
	return &Sinker{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		base:     sinker.BaseSinker{BatchSize: batchSize, Monitor: mon},
	}
}

// SinkDml batches Insert/Delete rows through stream-load and replays
// Update rows one at a time. The parallelizer groups by partition,
// not by table or row_type, so the batch is first split into
// contiguous runs sharing (schema, table, type); each run targets one
// stream-load endpoint.
func (s *Sinker) SinkDml(data []meta.RowData) error {
	if len(data) == 0 {
		return nil
	}

	sameRun := func(a, b meta.RowData) bool {
		return a.Type == b.Type && a.Schema == b.Schema && a.Tb == b.Tb
	}

	i := 0
	for i < len(data) {
		j := i + 1
		for j < len(data) && sameRun(data[i], data[j]) {
			j++
		}
		rt := data[i].Type
		if rt == meta.RowTypeInsert || rt == meta.RowTypeDelete {
			if err := s.base.SinkInBatches(data[i:j], s.batchSink); err != nil {
				return err
			}
		} else {
			if err := s.base.SinkSerially(data[i:j], s.sendOne); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}

func (s *Sinker) batchSink(data []meta.RowData, start, size int) error {
	_, err := s.sendData(data[start : start+size])
	return err
}

func (s *Sinker) sendOne(row meta.RowData) error {
	_, err := s.sendData([]meta.RowData{row})
	return err
}

// sendData builds one stream-load request for a contiguous run of
// rows sharing the same (schema, table, row type) and returns the
// total DataSize sent.
func (s *Sinker) sendData(rows []meta.RowData) (int, error) {
	loadData := make([]map[string]meta.ColValue, 0, len(rows))
	dataSize := 0
	for _, rd := range rows {
		dataSize += rd.DataSize
		if rd.Type == meta.RowTypeDelete {
			loadData = append(loadData, rd.Before)
		} else {
			loadData = append(loadData, rd.After)
		}
	}

	body, err := json.Marshal(loadData)
	if err != nil {
		return 0, rerror.NewSinkError("starrocks", err.Error())
	}

	db := rows[0].Schema
	tb := rows[0].Tb
	op := ""
	if rows[0].Type == meta.RowTypeDelete {
		op = "delete"
	}

	url := fmt.Sprintf("http://%s:%s/api/%s/%s/_stream_load", s.Host, s.Port, db, tb)
	if err := s.doStreamLoad(url, op, body); err != nil {
		return 0, err
	}
	return dataSize, nil
}

func (s *Sinker) doStreamLoad(url, op string, body []byte) error {
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return rerror.NewSinkError("starrocks", err.Error())
	}
	if s.Password != "" {
		req.SetBasicAuth(s.Username, s.Password)
	} else {
		req.SetBasicAuth(s.Username, "")
	}
	req.Header.Set("Expect", "100-continue")
	req.Header.Set("format", "json")
	req.Header.Set("strip_outer_array", "true")
	// by default, __op is upsert.
	if op != "" {
		req.Header.Set("columns", fmt.Sprintf("__op='%s'", op))
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return rerror.NewSinkError("starrocks", err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return rerror.NewSinkError("starrocks", err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return rerror.NewSinkError("starrocks", fmt.Sprintf("stream load request failed, status_code: %d", resp.StatusCode))
	}

	var result struct {
		Status  string `json:"Status"`
		Message string `json:"Message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return rerror.NewSinkError("starrocks", "could not parse stream load response: "+err.Error())
	}
	if result.Status != "Success" {
		return rerror.NewSinkError("starrocks", fmt.Sprintf("stream load request failed, status_code: %d, load_result: %s", resp.StatusCode, string(respBody)))
	}
	return nil
}

// SinkDdl is a no-op: StarRocks schema changes are applied out of
// band.
func (s *Sinker) SinkDdl(data []meta.DdlData) error { return nil }

// SinkRaw is a no-op: this sinker only ever receives Dml batches.
func (s *Sinker) SinkRaw(data []meta.DtData) error { return nil }

// RefreshMeta is a no-op: StarRocks column order is discovered per
// stream-load request via the JSON body's own keys, not cached.
func (s *Sinker) RefreshMeta(data []meta.DdlData) error { return nil }

// Close releases no resources; the http.Client owns its own
// connection pool lifecycle.
func (s *Sinker) Close() error { return nil }
