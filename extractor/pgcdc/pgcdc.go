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

// Package pgcdc implements the PostgreSQL logical replication CDC
// extractor: connect to a replication slot, decode
// Relation/Insert/Update/Delete messages, and periodically
// acknowledge the standby status so the server can reclaim WAL.
package pgcdc

import (
	"context"
	"time"

	"github.com/jackc/pglogrepl"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgproto3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/dtstream/dtstream/internal/meta"
	"github.com/dtstream/dtstream/internal/position"
	"github.com/dtstream/dtstream/internal/queue"
	"github.com/dtstream/dtstream/internal/rerror"
	"github.com/dtstream/dtstream/internal/syncer"
)

// outputPlugin is the logical decoding plugin this extractor speaks;
// pgoutput ships with PostgreSQL and needs no server-side extension.
const outputPlugin = "pgoutput"

// StandbyInterval is how often a standby status update is sent absent
// an explicit reply request from the server.
const StandbyInterval = 10 * time.Second

// Extractor streams logical-replication changes for one publication.
type Extractor struct {
	ConnString  string
	SlotName    string
	Publication string
	StartLSN    string
	Manager     *meta.Manager
	Filter      *meta.RdbFilter
	Syncer      *syncer.Syncer

	conn *pgconn.PgConn
}

// New builds an Extractor from cfg.
func New(cfg Config, mgr *meta.Manager, filter *meta.RdbFilter, sync *syncer.Syncer) *Extractor {
	return &Extractor{
		ConnString:  cfg.URL,
		SlotName:    cfg.SlotName,
		Publication: cfg.Publication,
		StartLSN:    cfg.StartLSN,
		Manager:     mgr,
		Filter:      filter,
		Syncer:      sync,
	}
}

// Close terminates the replication connection, if open.
func (e *Extractor) Close() error {
	if e.conn == nil {
		return nil
	}
	return e.conn.Close(context.Background())
}

// Extract connects, creates the slot if it does not already exist,
// starts replication from the last committed position (or, on first
// run, from StartLSN if set, else the server's current WAL position
// reported by IDENTIFY_SYSTEM), and streams decoded rows
// onto sink until ctx is canceled.
func (e *Extractor) Extract(ctx context.Context, sink *queue.Queue[meta.DtItem]) error {
	conn, err := pgconn.Connect(ctx, e.ConnString)
	if err != nil {
		return rerror.NewConnectionError(e.ConnString, err)
	}
	e.conn = conn

	sysident, err := pglogrepl.IdentifySystem(ctx, conn)
	if err != nil {
		return rerror.NewConnectionError(e.ConnString, err)
	}
	log.WithFields(log.Fields{
		"systemID": sysident.SystemID,
		"timeline": sysident.Timeline,
		"xlogpos":  sysident.XLogPos,
	}).Info("identified postgres replication system")

	startLSN := sysident.XLogPos
	if e.StartLSN != "" {
		lsn, err := pglogrepl.ParseLSN(e.StartLSN)
		if err != nil {
			return rerror.NewConfigError("invalid start LSN " + e.StartLSN + ": " + err.Error())
		}
		startLSN = lsn
	}
	if prior := e.Syncer.Committed(); prior.Kind == position.KindLSN {
		startLSN = pglogrepl.LSN(prior.LSN)
	}

	if _, err := pglogrepl.CreateReplicationSlot(ctx, conn, e.SlotName, outputPlugin,
		pglogrepl.CreateReplicationSlotOptions{}); err != nil && !isDuplicateObject(err) {
		return rerror.NewConnectionError(e.ConnString, err)
	}

	pluginArgs := []string{
		"proto_version '2'",
		"publication_names '" + e.Publication + "'",
	}
	if err := pglogrepl.StartReplication(ctx, conn, e.SlotName, startLSN,
		pglogrepl.StartReplicationOptions{PluginArgs: pluginArgs}); err != nil {
		return rerror.NewConnectionError(e.ConnString, err)
	}

	return e.stream(ctx, conn, startLSN, sink)
}

// A slot left behind by an earlier run is reused, not an error.
func isDuplicateObject(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42710"
}

func (e *Extractor) stream(ctx context.Context, conn *pgconn.PgConn, startLSN pglogrepl.LSN, sink *queue.Queue[meta.DtItem]) error {
	clientXLogPos := startLSN
	nextStandby := time.Now().Add(StandbyInterval)

	for {
		if time.Now().After(nextStandby) {
			if err := e.sendStandbyStatus(ctx, conn, clientXLogPos); err != nil {
				return err
			}
			nextStandby = time.Now().Add(StandbyInterval)
		}

		recvCtx, cancel := context.WithDeadline(ctx, nextStandby)
		rawMsg, err := conn.ReceiveMessage(recvCtx)
		cancel()
		if err != nil {
			if pgconn.Timeout(err) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return rerror.NewConnectionError(e.ConnString, err)
		}

		if errMsg, ok := rawMsg.(*pgproto3.ErrorResponse); ok {
			return rerror.NewConnectionError(e.ConnString, errorResponseErr(errMsg))
		}

		copyData, ok := rawMsg.(*pgproto3.CopyData)
		if !ok || len(copyData.Data) == 0 {
			continue
		}

		switch copyData.Data[0] {
		case pglogrepl.PrimaryKeepaliveMessageByteID:
			pkm, err := pglogrepl.ParsePrimaryKeepaliveMessage(copyData.Data[1:])
			if err != nil {
				return rerror.NewDecodeError("keepalive", err.Error())
			}
			if pkm.ServerWALEnd > clientXLogPos {
				clientXLogPos = pkm.ServerWALEnd
			}
			if pkm.ReplyRequested {
				nextStandby = time.Time{}
			}

		case pglogrepl.XLogDataByteID:
			xld, err := pglogrepl.ParseXLogData(copyData.Data[1:])
			if err != nil {
				return rerror.NewDecodeError("xlogdata", err.Error())
			}
			if err := e.handleXLogData(xld, sink); err != nil {
				return err
			}
			if end := xld.WALStart + pglogrepl.LSN(len(xld.WALData)); end > clientXLogPos {
				clientXLogPos = end
			}
		}
	}
}

func errorResponseErr(e *pgproto3.ErrorResponse) error {
	return rerror.NewUnexpected("postgres error response: " + e.Message)
}

// sendStandbyStatus acknowledges progress using the last *committed*
// position tracked by the pipeline driver via e.Syncer. Replying with
// anything that does not advance stalls WAL reclamation upstream. Until
// a committed LSN exists, the flush/apply fields carry the invalid LSN
// 0, which the server ignores.
func (e *Extractor) sendStandbyStatus(ctx context.Context, conn *pgconn.PgConn, clientXLogPos pglogrepl.LSN) error {
	var committed pglogrepl.LSN
	if p := e.Syncer.Committed(); p.Kind == position.KindLSN {
		committed = pglogrepl.LSN(p.LSN)
		if committed > clientXLogPos {
			committed = clientXLogPos
		}
	}
	err := pglogrepl.SendStandbyStatusUpdate(ctx, conn, pglogrepl.StandbyStatusUpdate{
		WALWritePosition: clientXLogPos,
		WALFlushPosition: committed,
		WALApplyPosition: committed,
		ClientTime:       time.Now(),
	})
	if err != nil {
		return rerror.NewConnectionError(e.ConnString, err)
	}
	return nil
}

func (e *Extractor) handleXLogData(xld pglogrepl.XLogData, sink *queue.Queue[meta.DtItem]) error {
	logicalMsg, err := pglogrepl.Parse(xld.WALData)
	if err != nil {
		return rerror.NewDecodeError("logical message", err.Error())
	}

	pos := position.LSN(uint64(xld.WALStart))

	switch msg := logicalMsg.(type) {
	case *pglogrepl.RelationMessage:
		e.decodeRelation(msg)

	case *pglogrepl.CommitMessage:
		return e.decodeCommit(msg, sink)

	case *pglogrepl.BeginMessage, *pglogrepl.OriginMessage,
		*pglogrepl.TruncateMessage, *pglogrepl.TypeMessage:
		// Begin carries no row data and needs no payload; the pipeline
		// driver only needs the Commit boundary, pushed by decodeCommit, to
		// advance last_received/last_commit.

	case *pglogrepl.InsertMessage:
		return e.decodeInsert(msg, pos, sink)

	case *pglogrepl.UpdateMessage:
		return e.decodeUpdate(msg, pos, sink)

	case *pglogrepl.DeleteMessage:
		return e.decodeDelete(msg, pos, sink)

	default:
		log.Debugf("unhandled logical replication message: %T", msg)
	}
	return nil
}

func (e *Extractor) decodeRelation(msg *pglogrepl.RelationMessage) {
	tbMeta := e.Manager.Get(msg.Namespace, msg.RelationName)

	colNames := make([]string, len(msg.Columns))
	if tbMeta.ColTypeMap == nil {
		tbMeta.ColTypeMap = make(map[string]meta.ColType)
	}
	if tbMeta.ColMetaMap == nil {
		tbMeta.ColMetaMap = make(map[string]meta.ColMeta)
	}
	for i, col := range msg.Columns {
		colType := pgTypeOIDToColType(col.DataType)
		tbMeta.ColTypeMap[col.Name] = colType
		tbMeta.ColMetaMap[col.Name] = meta.ColMeta{Name: col.Name, Type: colType}
		colNames[i] = col.Name
	}
	// align the column order of tb_meta to that of the wal log
	tbMeta.Cols = colNames
	tbMeta.Resolve()

	e.Manager.BindOID(int32(msg.RelationID), tbMeta)
}

func (e *Extractor) decodeInsert(msg *pglogrepl.InsertMessage, pos position.Position, sink *queue.Queue[meta.DtItem]) error {
	tbMeta, ok := e.Manager.GetByOID(int32(msg.RelationID))
	if !ok {
		return rerror.NewMetadataError("unknown relation OID in insert message")
	}
	after, err := e.parseTuple(tbMeta, msg.Tuple)
	if err != nil {
		return err
	}
	return e.pushRow(meta.RowData{
		Schema: tbMeta.Schema,
		Tb:     tbMeta.Tb,
		Type:   meta.RowTypeInsert,
		After:  after,
	}, pos, sink)
}

func (e *Extractor) decodeUpdate(msg *pglogrepl.UpdateMessage, pos position.Position, sink *queue.Queue[meta.DtItem]) error {
	tbMeta, ok := e.Manager.GetByOID(int32(msg.RelationID))
	if !ok {
		return rerror.NewMetadataError("unknown relation OID in update message")
	}

	after, err := e.parseTuple(tbMeta, msg.NewTuple)
	if err != nil {
		return err
	}

	var before map[string]meta.ColValue
	switch {
	case msg.OldTupleType == pglogrepl.UpdateMessageTupleTypeOld && msg.OldTuple != nil:
		before, err = e.parseTuple(tbMeta, msg.OldTuple)
	case msg.OldTupleType == pglogrepl.UpdateMessageTupleTypeKey && msg.OldTuple != nil:
		before, err = e.parseTuple(tbMeta, msg.OldTuple)
	case len(tbMeta.WhereCols) > 0:
		before = make(map[string]meta.ColValue, len(tbMeta.WhereCols))
		for _, c := range tbMeta.WhereCols {
			before[c] = after[c]
		}
	default:
		before = map[string]meta.ColValue{}
	}
	if err != nil {
		return err
	}

	return e.pushRow(meta.RowData{
		Schema: tbMeta.Schema,
		Tb:     tbMeta.Tb,
		Type:   meta.RowTypeUpdate,
		Before: before,
		After:  after,
	}, pos, sink)
}

func (e *Extractor) decodeDelete(msg *pglogrepl.DeleteMessage, pos position.Position, sink *queue.Queue[meta.DtItem]) error {
	tbMeta, ok := e.Manager.GetByOID(int32(msg.RelationID))
	if !ok {
		return rerror.NewMetadataError("unknown relation OID in delete message")
	}

	var before map[string]meta.ColValue
	var err error
	switch {
	case msg.OldTupleType == pglogrepl.UpdateMessageTupleTypeOld && msg.OldTuple != nil:
		before, err = e.parseTuple(tbMeta, msg.OldTuple)
	case msg.OldTupleType == pglogrepl.UpdateMessageTupleTypeKey && msg.OldTuple != nil:
		before, err = e.parseTuple(tbMeta, msg.OldTuple)
	default:
		// Neither an old tuple nor a key tuple was sent (REPLICA
		// IDENTITY NOTHING). Without where_cols there is no column set
		// left to build a replay WHERE clause from, so the delete is
		// unreplayable rather than a legitimate no-op.
		if len(tbMeta.WhereCols) == 0 {
			return rerror.NewDecodeError(tbMeta.FullName(), "delete has no old/key tuple and no where_cols to replay it by")
		}
		before = map[string]meta.ColValue{}
	}
	if err != nil {
		return err
	}

	return e.pushRow(meta.RowData{
		Schema: tbMeta.Schema,
		Tb:     tbMeta.Tb,
		Type:   meta.RowTypeDelete,
		Before: before,
	}, pos, sink)
}

// parseTuple decodes one tuple's columns in the order recorded by the
// table's most recent Relation message.
func (e *Extractor) parseTuple(tbMeta *meta.TbMeta, tuple *pglogrepl.TupleData) (map[string]meta.ColValue, error) {
	if tuple == nil {
		return map[string]meta.ColValue{}, nil
	}
	colValues := make(map[string]meta.ColValue, len(tuple.Columns))
	for i, col := range tuple.Columns {
		if i >= len(tbMeta.Cols) {
			break
		}
		name := tbMeta.Cols[i]
		colType := tbMeta.ColTypeMap[name]

		switch col.DataType {
		case 'n':
			colValues[name] = meta.None
		case 'u':
			return nil, rerror.NewUnexpected("unexpected UnchangedToast value received for column " + name)
		case 't':
			val, err := decodePgColValue(colType, col.Data)
			if err != nil {
				return nil, rerror.NewDecodeError(name, err.Error())
			}
			colValues[name] = val
		default:
			colValues[name] = meta.None
		}
	}
	return colValues, nil
}

// decodeCommit pushes the transaction boundary as a Commit item
// carrying the transaction's commit LSN: the pipeline driver's
// fetchDml/fetchDdl/fetchRaw treat a Commit item as advancing both
// last_received and last_commit, which is what lets
// sendStandbyStatus reply with a real committed position instead of
// the last merely-received one.
func (e *Extractor) decodeCommit(msg *pglogrepl.CommitMessage, sink *queue.Queue[meta.DtItem]) error {
	pos := position.LSN(uint64(msg.CommitLSN))
	for sink.IsFull() {
		time.Sleep(time.Millisecond)
	}
	_ = sink.Push(meta.DtItem{
		Data:     meta.DtData{Kind: meta.DtDataCommit},
		Position: pos,
	})
	return nil
}

// pushRow applies the filter and pushes the row, busy-polling while
// the queue is full like the snapshot extractor.
func (e *Extractor) pushRow(row meta.RowData, pos position.Position, sink *queue.Queue[meta.DtItem]) error {
	if e.Filter != nil && e.Filter.Filter(row.Schema, row.Tb, row.Type) {
		return nil
	}
	for sink.IsFull() {
		time.Sleep(time.Millisecond)
	}
	_ = sink.Push(meta.DtItem{
		Data:     meta.DtData{Kind: meta.DtDataDml, Row: row},
		Position: pos,
	})
	return nil
}
