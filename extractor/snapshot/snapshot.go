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

// Package snapshot implements a full-table extractor that walks a
// table in ordered slices (or, absent a usable order column, a single
// unordered full scan).
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/position"
	"github.com/dtstream/dtstream/internal/queue"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/internal/stdpool"
	"github.com/dtstream/dtstream/internal/stopper"
)

// DefaultSliceSize is the number of rows fetched per ordered slice
// query.
const DefaultSliceSize = 5000

// Extractor performs a one-shot snapshot of a single table.
type Extractor struct {
	DB        *sql.DB
	Manager   *meta.Manager
	Schema    string
	Table     string
	SliceSize int

	// Resume, if non-empty, is the last order-column value already
	// delivered by a prior, interrupted run; extraction resumes
	// strictly after it instead of from the start of the table.
	Resume meta.ColValue

	// Shutdown, if non-nil, is shared with the pipeline driver. Once
	// the last row is pushed and the queue has drained, Extract sets
	// it so the driver stops on its own instead of spinning forever
	// on an exhausted source.
	Shutdown *atomic.Bool
}

// Open dials rawURL and returns an Extractor over schema.table. The
// underlying pool closes when ctx stops.
func Open(ctx *stopper.Context, rawURL, schema, table string, cfg Config, mgr *meta.Manager) (*Extractor, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rerror.NewConfigError("invalid mysql url: " + err.Error())
	}
	db, err := stdpool.OpenMySQL(ctx, rawURL, u, stdpool.Options{WaitForStartup: true})
	if err != nil {
		return nil, err
	}
	return &Extractor{DB: db, Manager: mgr, Schema: schema, Table: table, SliceSize: cfg.SliceSize}, nil
}

// Close is a no-op; the extractor does not own DB's lifecycle.
func (e *Extractor) Close() error { return nil }

// Extract runs the slice-scan (or full-scan fallback) and pushes
// every row onto sink as an Insert: After populated, Before nil.
func (e *Extractor) Extract(ctx context.Context, sink *queue.Queue[meta.DtItem]) error {
	tbMeta := e.Manager.Get(e.Schema, e.Table)
	if len(tbMeta.Cols) == 0 {
		return rerror.NewMetadataError(fmt.Sprintf("%s.%s: table metadata not loaded", e.Schema, e.Table))
	}

	sliceSize := e.SliceSize
	if sliceSize <= 0 {
		sliceSize = DefaultSliceSize
	}

	if tbMeta.OrderCol == "" {
		if err := e.extractAll(ctx, tbMeta, sink); err != nil {
			return err
		}
		return e.signalDone(ctx, sink)
	}

	orderColMeta, ok := tbMeta.ColMetaMap[tbMeta.OrderCol]
	if !ok {
		return rerror.NewMetadataError(tbMeta.OrderCol + ": order column not found in metadata")
	}
	if err := e.extractBySlices(ctx, tbMeta, orderColMeta, sliceSize, sink); err != nil {
		return err
	}
	return e.signalDone(ctx, sink)
}

// signalDone waits for the queue to drain, then sets the shared
// shutdown flag so the pipeline driver can finish its final tick and
// return.
func (e *Extractor) signalDone(ctx context.Context, sink *queue.Queue[meta.DtItem]) error {
	if e.Shutdown == nil {
		return nil
	}
	for !sink.IsEmpty() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	e.Shutdown.Store(true)
	return nil
}

func (e *Extractor) extractAll(ctx context.Context, tbMeta *meta.TbMeta, sink *queue.Queue[meta.DtItem]) error {
	log.Infof("start extracting data from %s without slices", tbMeta.FullName())

	sqlText := fmt.Sprintf("SELECT * FROM %s", tbMeta.FullName())
	rows, err := e.DB.QueryContext(ctx, sqlText)
	if err != nil {
		return rerror.NewConnectionError(tbMeta.FullName(), err)
	}
	defer rows.Close()

	count := 0
	if err := e.forEachRow(ctx, rows, tbMeta, sink, func(map[string]meta.ColValue) { count++ }); err != nil {
		return err
	}

	log.Infof("end extracting data from %s, all count: %d", tbMeta.FullName(), count)
	return rows.Err()
}

func (e *Extractor) extractBySlices(
	ctx context.Context,
	tbMeta *meta.TbMeta,
	orderColMeta meta.ColMeta,
	sliceSize int,
	sink *queue.Queue[meta.DtItem],
) error {
	log.Infof("start extracting data from %s by slices", tbMeta.FullName())

	startValue := e.Resume
	allCount := 0

	sqlFirst := fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC LIMIT %d",
		tbMeta.FullName(), orderColMeta.Name, sliceSize)
	sqlNext := fmt.Sprintf("SELECT * FROM %s WHERE %s > ? ORDER BY %s ASC LIMIT %d",
		tbMeta.FullName(), orderColMeta.Name, orderColMeta.Name, sliceSize)

	for {
		var rows *sql.Rows
		var err error
		if startValue.IsNone() {
			rows, err = e.DB.QueryContext(ctx, sqlFirst)
		} else {
			rows, err = e.DB.QueryContext(ctx, sqlNext, colValueBindArg(startValue))
		}
		if err != nil {
			return rerror.NewConnectionError(tbMeta.FullName(), err)
		}

		sliceCount := 0
		nextStart := startValue
		err = e.forEachRow(ctx, rows, tbMeta, sink, func(after map[string]meta.ColValue) {
			nextStart = after[orderColMeta.Name]
			sliceCount++
		})
		rows.Close()
		if err != nil {
			return err
		}

		startValue = nextStart
		allCount += sliceCount

		if sliceCount < sliceSize {
			break
		}
	}

	log.Infof("end extracting data from %s, all count: %d", tbMeta.FullName(), allCount)
	return nil
}

// forEachRow scans every row of rows into a ColValue map using
// tbMeta's column types, and pushes each as a DtItem onto sink,
// busy-polling while the queue is full so monitor samples keep
// flowing. onRow, if non-nil, is invoked with the
// decoded column map after each push.
func (e *Extractor) forEachRow(
	ctx context.Context,
	rows *sql.Rows,
	tbMeta *meta.TbMeta,
	sink *queue.Queue[meta.DtItem],
	onRow func(after map[string]meta.ColValue),
) error {
	cols, err := rows.Columns()
	if err != nil {
		return rerror.NewDecodeError(tbMeta.FullName(), err.Error())
	}

	raw := make([]sql.RawBytes, len(cols))
	scanDest := make([]interface{}, len(cols))
	for i := range raw {
		scanDest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return rerror.NewDecodeError(tbMeta.FullName(), err.Error())
		}

		after := make(map[string]meta.ColValue, len(cols))
		for i, name := range cols {
			colMeta, ok := tbMeta.ColMetaMap[name]
			if !ok {
				continue
			}
			val, err := decodeColValue(raw[i], colMeta)
			if err != nil {
				return rerror.NewDecodeError(name, err.Error())
			}
			after[name] = val
		}

		for sink.IsFull() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Millisecond):
			}
		}
		_ = sink.Push(meta.DtItem{
			Data: meta.DtData{
				Kind: meta.DtDataDml,
				Row: meta.RowData{
					Schema: tbMeta.Schema,
					Tb:     tbMeta.Tb,
					After:  after,
					Type:   meta.RowTypeInsert,
				},
			},
			Position: position.Timestamp(time.Now().UnixNano()),
		})

		if onRow != nil {
			onRow(after)
		}
	}
	return rows.Err()
}

// decodeColValue reinterprets raw bytes according to the column's
// declared type rather than sql.RawBytes's own (untyped)
// representation.
func decodeColValue(raw sql.RawBytes, colMeta meta.ColMeta) (meta.ColValue, error) {
	if raw == nil {
		return meta.None, nil
	}
	text := string(raw)

	switch colMeta.Type {
	case meta.ColTypeTiny:
		v, err := strconv.ParseInt(text, 10, 8)
		return meta.ColValue{Kind: meta.KindTiny, Tiny: int8(v)}, err
	case meta.ColTypeUnsignedTiny:
		v, err := strconv.ParseUint(text, 10, 8)
		return meta.ColValue{Kind: meta.KindUnsignedTiny, UnsignedTiny: uint8(v)}, err
	case meta.ColTypeShort:
		v, err := strconv.ParseInt(text, 10, 16)
		return meta.ColValue{Kind: meta.KindShort, Short: int16(v)}, err
	case meta.ColTypeUnsignedShort:
		v, err := strconv.ParseUint(text, 10, 16)
		return meta.ColValue{Kind: meta.KindUnsignedShort, UnsignedShort: uint16(v)}, err
	case meta.ColTypeLong:
		v, err := strconv.ParseInt(text, 10, 32)
		return meta.ColValue{Kind: meta.KindLong, Long: int32(v)}, err
	case meta.ColTypeUnsignedLong:
		v, err := strconv.ParseUint(text, 10, 32)
		return meta.ColValue{Kind: meta.KindUnsignedLong, UnsignedLong: uint32(v)}, err
	case meta.ColTypeLongLong:
		v, err := strconv.ParseInt(text, 10, 64)
		return meta.ColValue{Kind: meta.KindLongLong, LongLong: v}, err
	case meta.ColTypeUnsignedLongLong:
		v, err := strconv.ParseUint(text, 10, 64)
		return meta.ColValue{Kind: meta.KindUnsignedLongLong, UnsignedLongLong: v}, err
	case meta.ColTypeFloat:
		v, err := strconv.ParseFloat(text, 32)
		return meta.ColValue{Kind: meta.KindFloat, Float: float32(v)}, err
	case meta.ColTypeDouble:
		v, err := strconv.ParseFloat(text, 64)
		return meta.ColValue{Kind: meta.KindDouble, Double: v}, err
	case meta.ColTypeDecimal:
		return meta.ColValue{Kind: meta.KindDecimal, Decimal: text}, nil
	case meta.ColTypeTime:
		t, err := time.Parse("15:04:05.999999", text)
		return meta.ColValue{Kind: meta.KindTime, Time: t}, err
	case meta.ColTypeDate:
		t, err := time.Parse("2006-01-02", text)
		return meta.ColValue{Kind: meta.KindDate, Date: t}, err
	case meta.ColTypeDateTime:
		t, err := time.Parse("2006-01-02 15:04:05.999999", text)
		return meta.ColValue{Kind: meta.KindDateTime, DateTime: t}, err
	case meta.ColTypeTimestamp:
		t, err := time.Parse("2006-01-02 15:04:05.999999", text)
		return meta.ColValue{Kind: meta.KindTimestamp, Timestamp: t}, err
	case meta.ColTypeYear:
		v, err := strconv.ParseUint(text, 10, 16)
		return meta.ColValue{Kind: meta.KindYear, Year: uint16(v)}, err
	case meta.ColTypeString, meta.ColTypeBinary, meta.ColTypeVarBinary, meta.ColTypeBlob:
		return meta.ColValue{Kind: meta.KindBlob, Blob: append([]byte(nil), raw...)}, nil
	case meta.ColTypeBit:
		v, err := strconv.ParseUint(text, 10, 64)
		return meta.ColValue{Kind: meta.KindBit, Bit: v}, err
	case meta.ColTypeSet:
		return meta.ColValue{Kind: meta.KindSet, Set: text}, nil
	case meta.ColTypeEnum:
		return meta.ColValue{Kind: meta.KindEnum, Enum: text}, nil
	case meta.ColTypeJSON:
		return meta.ColValue{Kind: meta.KindJSON, Json: append([]byte(nil), raw...)}, nil
	default:
		return meta.None, nil
	}
}

// colValueBindArg converts a ColValue back into a driver bind
// argument for the ">" continuation query.
func colValueBindArg(v meta.ColValue) interface{} {
	switch v.Kind {
	case meta.KindTiny:
		return v.Tiny
	case meta.KindUnsignedTiny:
		return v.UnsignedTiny
	case meta.KindShort:
		return v.Short
	case meta.KindUnsignedShort:
		return v.UnsignedShort
	case meta.KindLong:
		return v.Long
	case meta.KindUnsignedLong:
		return v.UnsignedLong
	case meta.KindLongLong:
		return v.LongLong
	case meta.KindUnsignedLongLong:
		return v.UnsignedLongLong
	case meta.KindFloat:
		return v.Float
	case meta.KindDouble:
		return v.Double
	case meta.KindDecimal:
		return v.Decimal
	case meta.KindYear:
		return v.Year
	default:
		return v.String()
	}
}
