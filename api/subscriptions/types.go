// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/prize-auction/api/transactions"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/meterio/prize-auction/tx"
)

// EventMessage is pushed for every matched event.
type EventMessage struct {
	Address meter.Address        `json:"address"`
	Name    string               `json:"name,omitempty"`
	Topics  []meter.Bytes32      `json:"topics"`
	Data    string               `json:"data"`
	Meta    transactions.LogMeta `json:"meta"`
}

func convertEvent(meta transactions.LogMeta, event *tx.Event) *EventMessage {
	msg := &EventMessage{
		Address: event.Address,
		Topics:  event.Topics,
		Data:    hexutil.Encode(event.Data),
		Meta:    meta,
	}
	if len(event.Topics) > 0 {
		msg.Name = auction.EventName(event.Topics[0])
	}
	return msg
}

// TransferMessage is pushed for every matched transfer.
type TransferMessage struct {
	Sender    meter.Address         `json:"sender"`
	Recipient meter.Address         `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Token     uint32                `json:"token"`
	Meta      transactions.LogMeta  `json:"meta"`
}

func convertTransfer(meta transactions.LogMeta, transfer *tx.Transfer) *TransferMessage {
	v := math.HexOrDecimal256(*transfer.Amount)
	return &TransferMessage{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    &v,
		Token:     uint32(transfer.Token),
		Meta:      meta,
	}
}

// EventFilter contains options for event filtering.
type EventFilter struct {
	Address *meter.Address // always a module address
	Topic0  *meter.Bytes32
	Topic1  *meter.Bytes32
	Topic2  *meter.Bytes32
	Topic3  *meter.Bytes32
	Topic4  *meter.Bytes32
}

// Match returs whether event matches filter
func (ef *EventFilter) Match(event *tx.Event) bool {
	if (ef.Address != nil) && (*ef.Address != event.Address) {
		return false
	}

	matchTopic := func(topic *meter.Bytes32, index int) bool {
		if topic != nil {
			if len(event.Topics) <= index {
				return false
			}

			if *topic != event.Topics[index] {
				return false
			}
		}
		return true
	}

	return matchTopic(ef.Topic0, 0) &&
		matchTopic(ef.Topic1, 1) &&
		matchTopic(ef.Topic2, 2) &&
		matchTopic(ef.Topic3, 3) &&
		matchTopic(ef.Topic4, 4)
}

// TransferFilter contains options for transfer filtering.
type TransferFilter struct {
	TxOrigin  *meter.Address // who send tx
	Sender    *meter.Address // who transferred tokens
	Recipient *meter.Address // who received tokens
}

// Match returs whether transfer matches filter
func (tf *TransferFilter) Match(transfer *tx.Transfer, origin meter.Address) bool {
	if (tf.TxOrigin != nil) && (*tf.TxOrigin != origin) {
		return false
	}

	if (tf.Sender != nil) && (*tf.Sender != transfer.Sender) {
		return false
	}

	if (tf.Recipient != nil) && (*tf.Recipient != transfer.Recipient) {
		return false
	}
	return true
}
