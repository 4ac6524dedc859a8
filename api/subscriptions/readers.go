// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/meterio/prize-auction/api/transactions"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/tx"
)

// readBatch bounds how many executions one backlog read covers.
const readBatch = 100

// msgReader first replays history from the log db, then matches live receipts.
type msgReader interface {
	// Read returns the next backlog batch and whether more may follow.
	Read(ctx context.Context, head uint64) ([]interface{}, bool, error)
	// Match converts a live receipt. Receipts at or below the read position are skipped.
	Match(r *script.Receipt) []interface{}
}

type position struct {
	db  *logdb.LogDB
	pos uint64
}

// next returns the seq range of the next backlog batch, ok is false once pos reached head.
func (p *position) next(head uint64) (r *logdb.Range, ok bool) {
	if p.db == nil || p.pos >= head {
		return nil, false
	}
	to := p.pos + readBatch
	if to > head {
		to = head
	}
	r = &logdb.Range{Unit: logdb.Seq, From: p.pos + 1, To: to}
	p.pos = to
	return r, true
}

// advance reports whether a live receipt has not been delivered yet.
func (p *position) advance(seq uint64) bool {
	if seq <= p.pos {
		return false
	}
	p.pos = seq
	return true
}

func receiptMeta(r *script.Receipt) transactions.LogMeta {
	return transactions.LogMeta{Seq: r.Seq, Time: r.Time, TxID: r.TxID, TxOrigin: r.Origin}
}

type eventReader struct {
	position
	filter *EventFilter
}

func newEventReader(db *logdb.LogDB, pos uint64, filter *EventFilter) *eventReader {
	return &eventReader{position{db, pos}, filter}
}

func (er *eventReader) Read(ctx context.Context, head uint64) ([]interface{}, bool, error) {
	r, ok := er.next(head)
	if !ok {
		return nil, false, nil
	}
	events, err := er.db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{
			Address: er.filter.Address,
			Topics:  [5]*meter.Bytes32{er.filter.Topic0, er.filter.Topic1, er.filter.Topic2, er.filter.Topic3, er.filter.Topic4},
		}},
		Range: r,
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]interface{}, 0, len(events))
	for _, ev := range events {
		topics := make([]meter.Bytes32, 0, len(ev.Topics))
		for _, t := range ev.Topics {
			if t != nil {
				topics = append(topics, *t)
			}
		}
		meta := transactions.LogMeta{Seq: ev.Seq, Time: ev.Time, TxID: ev.TxID, TxOrigin: ev.TxOrigin}
		msgs = append(msgs, convertEvent(meta, &tx.Event{Address: ev.Address, Topics: topics, Data: ev.Data}))
	}
	return msgs, true, nil
}

func (er *eventReader) Match(r *script.Receipt) []interface{} {
	if !er.advance(r.Seq) {
		return nil
	}
	var msgs []interface{}
	for _, ev := range r.Events {
		if er.filter.Match(ev) {
			msgs = append(msgs, convertEvent(receiptMeta(r), ev))
		}
	}
	return msgs
}

type transferReader struct {
	position
	filter *TransferFilter
}

func newTransferReader(db *logdb.LogDB, pos uint64, filter *TransferFilter) *transferReader {
	return &transferReader{position{db, pos}, filter}
}

func (tr *transferReader) Read(ctx context.Context, head uint64) ([]interface{}, bool, error) {
	r, ok := tr.next(head)
	if !ok {
		return nil, false, nil
	}
	transfers, err := tr.db.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{
			TxOrigin:  tr.filter.TxOrigin,
			Sender:    tr.filter.Sender,
			Recipient: tr.filter.Recipient,
		}},
		Range: r,
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]interface{}, 0, len(transfers))
	for _, t := range transfers {
		meta := transactions.LogMeta{Seq: t.Seq, Time: t.Time, TxID: t.TxID, TxOrigin: t.TxOrigin}
		msgs = append(msgs, convertTransfer(meta, &tx.Transfer{
			Sender:    t.Sender,
			Recipient: t.Recipient,
			Amount:    t.Amount,
			Token:     byte(t.Token),
		}))
	}
	return msgs, true, nil
}

func (tr *transferReader) Match(r *script.Receipt) []interface{} {
	if !tr.advance(r.Seq) {
		return nil
	}
	var msgs []interface{}
	for _, t := range r.Transfers {
		if tr.filter.Match(t, r.Origin) {
			msgs = append(msgs, convertTransfer(receiptMeta(r), t))
		}
	}
	return msgs
}
