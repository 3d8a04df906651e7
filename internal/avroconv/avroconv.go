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

// Package avroconv builds and caches Avro schemas for RowData, used
// by sinker/kafka to encode both the record key (primary key columns)
// and the record value (every column) before producing to Kafka.
package avroconv

import (
	"encoding/json"
	"sync"

	"github.com/hamba/avro/v2"

	"github.com/dtstream/dtstream/internal/meta"
)

// Converter lazily builds one value schema and one key schema per
// table, keyed by "schema.table", so repeated rows for the same table
// reuse the same compiled avro.Schema.
type Converter struct {
	mu          sync.Mutex
	valueSchema map[string]avro.Schema
	keySchema   map[string]avro.Schema
}

// New returns an empty Converter.
func New() *Converter {
	return &Converter{
		valueSchema: make(map[string]avro.Schema),
		keySchema:   make(map[string]avro.Schema),
	}
}

// RowDataToAvroValue encodes every column of row (After for
// Insert/Update, Before for Delete) as an Avro record.
func (c *Converter) RowDataToAvroValue(tbMeta *meta.TbMeta, row meta.RowData) ([]byte, error) {
	cols := row.After
	if cols == nil {
		cols = row.Before
	}
	schema, err := c.valueSchemaFor(tbMeta)
	if err != nil {
		return nil, err
	}
	return avro.Marshal(schema, toAvroRecord(tbMeta.Cols, cols))
}

// RowDataToAvroKey encodes the table's where-columns (primary key,
// falling back to unique key or every column) as an Avro record, used
// as the Kafka message key so that compacted topics retain log
// semantics per source row.
func (c *Converter) RowDataToAvroKey(tbMeta *meta.TbMeta, row meta.RowData) ([]byte, error) {
	keyCols := tbMeta.WhereCols
	if len(keyCols) == 0 {
		keyCols = tbMeta.Cols
	}
	values := row.PrimaryKeyValues(keyCols)
	record := make(map[string]interface{}, len(keyCols))
	for i, c := range keyCols {
		record[c] = avroScalar(values[i])
	}

	schema, err := c.keySchemaFor(tbMeta, keyCols)
	if err != nil {
		return nil, err
	}
	return avro.Marshal(schema, record)
}

func (c *Converter) valueSchemaFor(tbMeta *meta.TbMeta) (avro.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := tbMeta.FullName()
	if s, ok := c.valueSchema[k]; ok {
		return s, nil
	}
	s, err := buildRecordSchema(tbMeta.FullName()+"_value", tbMeta.Cols)
	if err != nil {
		return nil, err
	}
	c.valueSchema[k] = s
	return s, nil
}

func (c *Converter) keySchemaFor(tbMeta *meta.TbMeta, keyCols []string) (avro.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := tbMeta.FullName()
	if s, ok := c.keySchema[k]; ok {
		return s, nil
	}
	s, err := buildRecordSchema(tbMeta.FullName()+"_key", keyCols)
	if err != nil {
		return nil, err
	}
	c.keySchema[k] = s
	return s, nil
}

// buildRecordSchema constructs a permissive record schema, every
// field nullable-union'd with string: columns are converted to their
// string representation before encoding rather than preserving exact
// wire types in the Avro schema itself.
func buildRecordSchema(name string, cols []string) (avro.Schema, error) {
	fields := make([]map[string]interface{}, len(cols))
	for i, col := range cols {
		fields[i] = map[string]interface{}{
			"name": col,
			"type": []string{"null", "string"},
		}
	}
	schemaDef := map[string]interface{}{
		"type":   "record",
		"name":   avroSafeName(name),
		"fields": fields,
	}
	jsonSchema, err := json.Marshal(schemaDef)
	if err != nil {
		return nil, err
	}
	return avro.Parse(string(jsonSchema))
}

func avroSafeName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' || c == '-' {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return string(out)
}

func toAvroRecord(cols []string, values map[string]meta.ColValue) map[string]interface{} {
	record := make(map[string]interface{}, len(cols))
	for _, col := range cols {
		record[col] = avroScalar(values[col])
	}
	return record
}

// avroScalar renders a ColValue as the ["null","string"] union value
// the schema built by buildRecordSchema expects: nil for the null
// branch, or a map naming the "string" branch for every other kind.
func avroScalar(v meta.ColValue) interface{} {
	if v.IsNone() {
		return nil
	}
	return map[string]interface{}{"string": v.String()}
}
