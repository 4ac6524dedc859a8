// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// Event signatures, carried as Topics[0]. Topics[1] is the prize id when there is one.
var (
	PrizeCreatedEvent = meter.Blake2b([]byte("PrizeCreated(uint64,string,uint64,uint256)"))
	BidPlacedEvent    = meter.Blake2b([]byte("BidPlaced(uint64,address,uint256)"))
	BidClosedEvent    = meter.Blake2b([]byte("BidClosed(uint64,address,uint256)"))
	PrizeClaimedEvent = meter.Blake2b([]byte("PrizeClaimed(uint64,address,uint64,uint256)"))
	BidCanceledEvent  = meter.Blake2b([]byte("BidCanceled(uint64)"))
	WithdrawnEvent    = meter.Blake2b([]byte("Withdrawn(address,uint256)"))
)

var eventNames = map[meter.Bytes32]string{
	PrizeCreatedEvent: "PrizeCreated",
	BidPlacedEvent:    "BidPlaced",
	BidClosedEvent:    "BidClosed",
	PrizeClaimedEvent: "PrizeClaimed",
	BidCanceledEvent:  "BidCanceled",
	WithdrawnEvent:    "Withdrawn",
}

// EventName returns the name of an event signature, empty if unknown.
func EventName(sig meter.Bytes32) string {
	return eventNames[sig]
}

type PrizeCreated struct {
	Name          string
	AssetID       uint64
	StartingPrice *big.Int
}

type BidPlaced struct {
	Bidder meter.Address
	Amount *big.Int
}

type BidClosed struct {
	Winner meter.Address
	Amount *big.Int
}

type PrizeClaimed struct {
	Winner  meter.Address
	AssetID uint64
	Paid    *big.Int
}

type Withdrawn struct {
	To     meter.Address
	Amount *big.Int
}

// EventSignature looks up an event signature by name.
func EventSignature(name string) (meter.Bytes32, bool) {
	for sig, n := range eventNames {
		if n == name {
			return sig, true
		}
	}
	return meter.Bytes32{}, false
}

// PrizeTopic is Topics[1] of every event about prize id.
func PrizeTopic(id uint64) meter.Bytes32 {
	return meter.BytesToBytes32(meter.Uint64Bytes(id))
}

func emit(env *setypes.ScriptEnv, sig meter.Bytes32, prizeID uint64, data interface{}) {
	topics := []meter.Bytes32{sig}
	if prizeID != 0 {
		topics = append(topics, PrizeTopic(prizeID))
	}
	var raw []byte
	if data != nil {
		var err error
		if raw, err = rlp.EncodeToBytes(data); err != nil {
			log.Error("encode event failed", "event", EventName(sig), "err", err)
		}
	}
	env.AddEvent(meter.AuctionModuleAddr, topics, raw)
}
