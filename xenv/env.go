// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"
	"math/big"

	"github.com/meterio/prize-auction/meter"
)

// TransactionContext transaction context.
// Origin is the authenticated caller, Value the native amount attached to the request.
type TransactionContext struct {
	ID     meter.Bytes32
	Origin meter.Address
	Value  *big.Int
	Nonce  uint64
	Time   uint64
}

// NewTransactionContext returns a context with a non-nil value.
func NewTransactionContext(id meter.Bytes32, origin meter.Address, value *big.Int, nonce, ts uint64) *TransactionContext {
	if value == nil {
		value = new(big.Int)
	}
	return &TransactionContext{
		ID:     id,
		Origin: origin,
		Value:  value,
		Nonce:  nonce,
		Time:   ts,
	}
}

// Sent returns the attached value, zero when unset.
func (ctx *TransactionContext) Sent() *big.Int {
	if ctx.Value == nil {
		return new(big.Int)
	}
	return ctx.Value
}

func (ctx *TransactionContext) String() string {
	return fmt.Sprintf("txCtx{ID:%s Origin:%s Value:%s Nonce:%d Time:%d}", ctx.ID.AbbrevString(), ctx.Origin.String(), ctx.Sent().String(), ctx.Nonce, ctx.Time)
}
