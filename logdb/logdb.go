// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/tx"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			if err := db.Close(); err != nil {
				log.Warn("could not close logdb", "err", err)
			}
		}
	}()
	// an in-memory database lives only as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create logdb schema")
	}

	driverVer, _, _ := sqlite3.Version()
	log.Debug("logdb opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() {
	if err := db.db.Close(); err != nil {
		log.Warn("could not close logdb", "err", err)
	}
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare starts a batch for the execution located by header.
func (db *LogDB) Prepare(header *Header) *Batch {
	return &Batch{
		db:     db.db,
		header: header,
	}
}

func rangeCondition(r *Range, args []interface{}) (string, []interface{}) {
	if r == nil {
		return "", args
	}
	column := "seq"
	if r.Unit == Time {
		column = "time"
	}
	args = append(args, r.From)
	stmt := " AND " + column + " >= ? "
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += " AND " + column + " <= ? "
	}
	return stmt, args
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC,eventIndex ASC")
	}
	var args []interface{}
	stmt := "SELECT * FROM event WHERE 1"
	cond, args := rangeCondition(filter.Range, args)
	stmt += cond
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ? "
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC,eventIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC,eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT * FROM transfer ORDER BY seq ASC,transferIndex ASC")
	}
	var args []interface{}
	stmt := "SELECT * FROM transfer WHERE 1"
	cond, args := rangeCondition(filter.Range, args)
	stmt += cond
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ? "
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1 "
		} else {
			stmt += " OR ( 1 "
		}
		if criteria.TxOrigin != nil {
			args = append(args, criteria.TxOrigin.Bytes())
			stmt += " AND txOrigin = ? "
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ? "
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ? "
		}
		if criteria.Token != nil {
			args = append(args, *criteria.Token)
			stmt += " AND token = ? "
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC,transferIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC,transferIndex ASC "
	}
	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryTransfers(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...interface{}) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      uint64
			index    uint32
			ts       uint64
			txID     []byte
			txOrigin []byte
			address  []byte
			topics   [5][]byte
			data     []byte
		)
		if err := rows.Scan(
			&seq,
			&index,
			&ts,
			&txID,
			&txOrigin,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:      seq,
			Index:    index,
			Time:     ts,
			TxID:     meter.BytesToBytes32(txID),
			TxOrigin: meter.BytesToAddress(txOrigin),
			Address:  meter.BytesToAddress(address),
			Data:     data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := meter.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...interface{}) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       uint64
			index     uint32
			ts        uint64
			txID      []byte
			txOrigin  []byte
			sender    []byte
			recipient []byte
			amount    []byte
			token     uint32
		)
		if err := rows.Scan(
			&seq,
			&index,
			&ts,
			&txID,
			&txOrigin,
			&sender,
			&recipient,
			&amount,
			&token,
		); err != nil {
			return nil, err
		}
		trans := &Transfer{
			Seq:       seq,
			Index:     index,
			Time:      ts,
			TxID:      meter.BytesToBytes32(txID),
			TxOrigin:  meter.BytesToAddress(txOrigin),
			Sender:    meter.BytesToAddress(sender),
			Recipient: meter.BytesToAddress(recipient),
			Amount:    new(big.Int).SetBytes(amount),
			Token:     token,
		}
		transfers = append(transfers, trans)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *meter.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// Batch collects the logs of one execution and writes them in a single sql tx.
type Batch struct {
	db        *sql.DB
	header    *Header
	events    []*Event
	transfers []*Transfer
}

func (b *Batch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		if e := tx.Rollback(); e != nil {
			log.Warn("could not rollback", "err", e)
		}
		return err
	}
	return tx.Commit()
}

func (b *Batch) Commit() error {
	return b.execInTx(func(tx *sql.Tx) error {
		for _, event := range b.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(seq, eventIndex, time, txID, txOrigin, address, topic0, topic1, topic2, topic3, topic4, data) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.Seq,
				event.Index,
				event.Time,
				event.TxID.Bytes(),
				event.TxOrigin.Bytes(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}

		for _, transfer := range b.transfers {
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer(seq, transferIndex, time, txID, txOrigin, sender, recipient, amount, token) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				transfer.Seq,
				transfer.Index,
				transfer.Time,
				transfer.TxID.Bytes(),
				transfer.TxOrigin.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Amount.Bytes(),
				transfer.Token,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Batch) ForTransaction(txID meter.Bytes32, txOrigin meter.Address) struct {
	Insert func(tx.Events, tx.Transfers) *Batch
} {
	return struct {
		Insert func(events tx.Events, transfers tx.Transfers) *Batch
	}{
		func(events tx.Events, transfers tx.Transfers) *Batch {
			for _, event := range events {
				b.events = append(b.events, newEvent(b.header, uint32(len(b.events)), txID, txOrigin, event))
			}
			for _, transfer := range transfers {
				b.transfers = append(b.transfers, newTransfer(b.header, uint32(len(b.transfers)), txID, txOrigin, transfer))
			}
			return b
		},
	}
}
