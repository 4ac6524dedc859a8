// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/tx"
	"github.com/pkg/errors"
)

// RawTx carries a signed, rlp encoded tx.
type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	return tx.Decode(data)
}

// UnSignedTx describes a tx whose signing hash the caller wants to sign offline.
type UnSignedTx struct {
	ChainTag uint8                 `json:"chainTag"`
	Nonce    math.HexOrDecimal64   `json:"nonce"`
	Value    *math.HexOrDecimal256 `json:"value"`
	Data     string                `json:"data"`
}

func (ustx *UnSignedTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(ustx.Data)
	if err != nil {
		return nil, errors.WithMessage(err, "data")
	}
	var value *big.Int
	if ustx.Value != nil {
		value = (*big.Int)(ustx.Value)
	}
	return new(tx.Builder).
		ChainTag(ustx.ChainTag).
		Nonce(uint64(ustx.Nonce)).
		Value(value).
		Data(data).
		Build(), nil
}

// LogMeta locates a log record.
type LogMeta struct {
	Seq      uint64        `json:"seq"`
	Time     uint64        `json:"time"`
	TxID     meter.Bytes32 `json:"txID"`
	TxOrigin meter.Address `json:"txOrigin"`
}

// Event event.
type Event struct {
	Address meter.Address   `json:"address"`
	Name    string          `json:"name,omitempty"`
	Topics  []meter.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
}

// Transfer transfer log.
type Transfer struct {
	Sender    meter.Address         `json:"sender"`
	Recipient meter.Address         `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Token     uint32                `json:"token"`
}

// Receipt for json marshal
type Receipt struct {
	Meta      LogMeta        `json:"meta"`
	UniteHash *meter.Bytes32 `json:"uniteHash,omitempty"`
	Output    string         `json:"output"`
	Events    []*Event       `json:"events"`
	Transfers []*Transfer    `json:"transfers"`
}

func convertEvent(ev *tx.Event, name string) *Event {
	return &Event{
		Address: ev.Address,
		Name:    name,
		Topics:  ev.Topics,
		Data:    hexutil.Encode(ev.Data),
	}
}

func convertTransfer(tr *tx.Transfer) *Transfer {
	amount := math.HexOrDecimal256(*tr.Amount)
	return &Transfer{
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    &amount,
		Token:     uint32(tr.Token),
	}
}

// ConvertReceipt converts an engine receipt. nameOf resolves event signatures and may be nil.
func ConvertReceipt(r *script.Receipt, nameOf func(meter.Bytes32) string) *Receipt {
	receipt := &Receipt{
		Meta: LogMeta{
			Seq:      r.Seq,
			Time:     r.Time,
			TxID:     r.TxID,
			TxOrigin: r.Origin,
		},
		Output:    hexutil.Encode(r.Output),
		Events:    make([]*Event, len(r.Events)),
		Transfers: make([]*Transfer, len(r.Transfers)),
	}
	if !r.UniteHash.IsZero() {
		h := r.UniteHash
		receipt.UniteHash = &h
	}
	for i, ev := range r.Events {
		var name string
		if nameOf != nil && len(ev.Topics) > 0 {
			name = nameOf(ev.Topics[0])
		}
		receipt.Events[i] = convertEvent(ev, name)
	}
	for i, tr := range r.Transfers {
		receipt.Transfers[i] = convertTransfer(tr)
	}
	return receipt
}
