// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/meterio/prize-auction/meter"
)

// Transfer token transfer log.
// Token is meter.NativeToken for amounts, meter.PrizeToken for assets where Amount is the asset id.
type Transfer struct {
	Sender    meter.Address
	Recipient meter.Address
	Amount    *big.Int
	Token     byte
}

// Transfers slice of transfer logs.
type Transfers []*Transfer

// Event represents a module event.
// Topics[0] is the event signature, the remaining topics are indexed arguments.
type Event struct {
	Address meter.Address
	Topics  []meter.Bytes32
	Data    []byte
}

// Events slice of event logs.
type Events []*Event
