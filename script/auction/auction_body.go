// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
)

// AuctionBody is the payload of an auction request.
// Name and StartingPrice are read by OP_CREATE, Amount by OP_BID, PrizeID by the per-prize ops.
type AuctionBody struct {
	Opcode        uint32
	Version       uint32
	PrizeID       uint64
	Name          string
	StartingPrice *big.Int
	Amount        *big.Int
	Timestamp     uint64
	Nonce         uint64
}

func (ab *AuctionBody) String() string {
	return fmt.Sprintf("AuctionBody: Opcode=%v, Version=%v, PrizeID=%v, Name=%v, StartingPrice=%v, Amount=%v, Timestamp=%v, Nonce=%v",
		meter.GetOpName(ab.Opcode), ab.Version, ab.PrizeID, ab.Name, bigString(ab.StartingPrice), bigString(ab.Amount), ab.Timestamp, ab.Nonce)
}

func (ab *AuctionBody) amount() *big.Int {
	if ab.Amount == nil {
		return new(big.Int)
	}
	return ab.Amount
}

func (ab *AuctionBody) startingPrice() *big.Int {
	if ab.StartingPrice == nil {
		return new(big.Int)
	}
	return ab.StartingPrice
}

func EncodeToBytes(ab *AuctionBody) ([]byte, error) {
	return rlp.EncodeToBytes(ab)
}

func DecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}

// UniteHash identifies the request independent of its timestamp and nonce.
func (ab *AuctionBody) UniteHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		ab.Opcode,
		ab.Version,
		ab.PrizeID,
		ab.Name,
		ab.startingPrice(),
		ab.amount(),
	})
	if err != nil {
		return
	}

	hw.Sum(hash[:0])
	return
}

func bigString(b *big.Int) string {
	if b == nil {
		return "0"
	}
	return b.String()
}
