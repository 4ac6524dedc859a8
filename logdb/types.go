// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/tx"
)

// Header locates a committed execution. Seq increases by one per committed tx.
type Header struct {
	Seq  uint64
	Time uint64
}

// Event represents tx.Event that can be stored in db.
type Event struct {
	Seq      uint64
	Index    uint32
	Time     uint64
	TxID     meter.Bytes32
	TxOrigin meter.Address // caller
	Address  meter.Address // always a module address
	Topics   [5]*meter.Bytes32
	Data     []byte
}

// newEvent converts tx.Event to Event.
func newEvent(header *Header, index uint32, txID meter.Bytes32, txOrigin meter.Address, txEvent *tx.Event) *Event {
	ev := &Event{
		Seq:      header.Seq,
		Index:    index,
		Time:     header.Time,
		TxID:     txID,
		TxOrigin: txOrigin,
		Address:  txEvent.Address,
		Data:     txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	Seq       uint64
	Index     uint32
	Time      uint64
	TxID      meter.Bytes32
	TxOrigin  meter.Address
	Sender    meter.Address
	Recipient meter.Address
	Amount    *big.Int
	Token     uint32
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(header *Header, index uint32, txID meter.Bytes32, txOrigin meter.Address, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		Seq:       header.Seq,
		Index:     index,
		Time:      header.Time,
		TxID:      txID,
		TxOrigin:  txOrigin,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    transfer.Amount,
		Token:     uint32(transfer.Token),
	}
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *meter.Address // always a module address
	Topics  [5]*meter.Bytes32
}

// EventFilter filter
type EventFilter struct {
	TxID        *meter.Bytes32
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

type TransferCriteria struct {
	TxOrigin  *meter.Address //who send transaction
	Sender    *meter.Address //who transferred tokens
	Recipient *meter.Address //who recieved tokens
	Token     *uint32
}

type TransferFilter struct {
	TxID        *meter.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}
