// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/pkg/errors"
)

var opcodes = map[string]uint32{
	"create":   meter.OP_CREATE,
	"bid":      meter.OP_BID,
	"close":    meter.OP_CLOSE,
	"claim":    meter.OP_CLAIM,
	"cancel":   meter.OP_CANCEL,
	"withdraw": meter.OP_WITHDRAW,
}

type request struct {
	op     string
	prize  uint64
	name   string
	price  string
	amount string
	value  string
}

func parseAmount(what, s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("%s: invalid amount %q", what, s)
	}
	return v, nil
}

// body builds the auction body and the value the tx must attach.
func (r *request) body() (*auction.AuctionBody, *big.Int, error) {
	opcode, ok := opcodes[r.op]
	if !ok {
		return nil, nil, errors.Errorf("op: unknown operation %q", r.op)
	}
	price, err := parseAmount("price", r.price)
	if err != nil {
		return nil, nil, err
	}
	amount, err := parseAmount("amount", r.amount)
	if err != nil {
		return nil, nil, err
	}
	value, err := parseAmount("value", r.value)
	if err != nil {
		return nil, nil, err
	}

	body := &auction.AuctionBody{
		Opcode:    opcode,
		PrizeID:   r.prize,
		Timestamp: uint64(time.Now().Unix()),
	}
	switch opcode {
	case meter.OP_CREATE:
		if r.name == "" || price == nil {
			return nil, nil, errors.New("create needs -name and -price")
		}
		body.Name, body.StartingPrice = r.name, price
	case meter.OP_BID:
		if r.prize == 0 || amount == nil {
			return nil, nil, errors.New("bid needs -prize and -amount")
		}
		body.Amount = amount
		if value == nil {
			value = amount
		}
	case meter.OP_CLOSE, meter.OP_CLAIM, meter.OP_CANCEL:
		if r.prize == 0 {
			return nil, nil, errors.Errorf("%s needs -prize", r.op)
		}
	}
	return body, value, nil
}
