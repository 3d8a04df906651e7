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

// Package mongo implements a row-batch sinker against MongoDB,
// replaying each row as a collection write instead of a SQL
// statement: Insert/Update become a ReplaceOne upsert, Delete becomes
// a DeleteOne, both keyed by the row's where-columns.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/monitor"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/sinker"
)

// Sinker replays row mutations against one MongoDB client, mapping
// each source (schema, table) to a (database, collection) pair of the
// same names.
type Sinker struct {
	Client  *mongo.Client
	Manager *meta.Manager

	base sinker.BaseSinker
}

// New returns a Sinker with batchSize documents per BulkWrite call.
func New(client *mongo.Client, mgr *meta.Manager, batchSize int, mon *monitor.Monitor) *Sinker {
	return &Sinker{Client: client, Manager: mgr, base: sinker.BaseSinker{BatchSize: batchSize, Monitor: mon}}
}

// SinkDml groups data by (schema, table) within each batch window and
// issues one BulkWrite per group.
func (s *Sinker) SinkDml(data []meta.RowData) error {
	return s.base.SinkInBatches(data, s.sinkBatch)
}

func (s *Sinker) sinkBatch(data []meta.RowData, start, size int) error {
	ctx := context.Background()
	byCollection := make(map[string][]mongo.WriteModel)
	collOf := make(map[string]meta.RowData)
	order := make([]string, 0, 4)

	for _, row := range data[start : start+size] {
		key := row.Schema + "." + row.Tb
		if _, ok := byCollection[key]; !ok {
			order = append(order, key)
			collOf[key] = row
		}
		model, err := s.writeModel(row)
		if err != nil {
			return err
		}
		byCollection[key] = append(byCollection[key], model)
	}

	for _, key := range order {
		row0 := collOf[key]
		coll := s.Client.Database(row0.Schema).Collection(row0.Tb)
		if _, err := coll.BulkWrite(ctx, byCollection[key], options.BulkWrite().SetOrdered(true)); err != nil {
			return rerror.NewSinkError(key, err.Error())
		}
	}
	return nil
}

func (s *Sinker) writeModel(row meta.RowData) (mongo.WriteModel, error) {
	keyCols := s.whereCols(row)
	if row.Type == meta.RowTypeDelete {
		filter, err := s.keyFilter(row, row.Before, keyCols)
		if err != nil {
			return nil, err
		}
		return mongo.NewDeleteOneModel().SetFilter(filter), nil
	}

	doc, err := toBSON(row.After)
	if err != nil {
		return nil, rerror.NewSinkError(fmt.Sprintf("%s.%s", row.Schema, row.Tb), err.Error())
	}
	filter, err := s.keyFilter(row, row.After, keyCols)
	if err != nil {
		return nil, err
	}
	return mongo.NewReplaceOneModel().SetFilter(filter).SetReplacement(doc).SetUpsert(true), nil
}

func (s *Sinker) keyFilter(row meta.RowData, cols map[string]meta.ColValue, keyCols []string) (bson.M, error) {
	if len(keyCols) == 0 {
		return nil, rerror.NewUnexpected(fmt.Sprintf("%s.%s has no key columns to address a document by", row.Schema, row.Tb))
	}
	filter := bson.M{}
	for _, col := range keyCols {
		filter[col] = scalar(cols[col])
	}
	return filter, nil
}

func (s *Sinker) whereCols(row meta.RowData) []string {
	if s.Manager == nil {
		return nil
	}
	return s.Manager.Get(row.Schema, row.Tb).WhereCols
}

func toBSON(cols map[string]meta.ColValue) (bson.M, error) {
	doc := bson.M{}
	for col, val := range cols {
		doc[col] = scalar(val)
	}
	return doc, nil
}

func scalar(v meta.ColValue) interface{} {
	if v.IsNone() {
		return nil
	}
	return v.String()
}

// SinkDdl is a no-op: MongoDB is schemaless; there is no DDL to
// replay against it.
func (s *Sinker) SinkDdl(data []meta.DdlData) error { return nil }

// SinkRaw is a no-op: this sinker only ever receives Dml batches.
func (s *Sinker) SinkRaw(data []meta.DtData) error { return nil }

// RefreshMeta is a no-op for the same reason as SinkDdl.
func (s *Sinker) RefreshMeta(data []meta.DdlData) error { return nil }

// Close disconnects the Mongo client.
func (s *Sinker) Close() error { return s.Client.Disconnect(context.Background()) }
