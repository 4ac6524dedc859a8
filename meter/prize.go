// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"math/big"
)

// Prize is one auctioned lot backed by a custodied asset.
// HighestBidder and Winner stay nil until set.
type Prize struct {
	ID            uint64
	Name          string
	AssetID       uint64
	StartingPrice *big.Int
	HighestBid    *big.Int
	HighestBidder *Address `rlp:"nil"`
	Sold          bool
	Winner        *Address `rlp:"nil"`
	Claimed       bool
	Canceled      bool

	BidCount   uint64
	CreateTime uint64
	CloseTime  uint64
	ClaimTime  uint64
}

// NewPrize returns an open prize with no bids.
func NewPrize(id uint64, name string, assetID uint64, startingPrice *big.Int, ts uint64) *Prize {
	return &Prize{
		ID:            id,
		Name:          name,
		AssetID:       assetID,
		StartingPrice: new(big.Int).Set(startingPrice),
		HighestBid:    new(big.Int),
		CreateTime:    ts,
	}
}

// Exists reports whether the record was ever created.
func (p *Prize) Exists() bool {
	return p != nil && p.ID != 0
}

// IsOpen reports whether the prize still accepts bids.
func (p *Prize) IsOpen() bool {
	return p.Exists() && !p.Sold && !p.Canceled
}

func (p *Prize) HasBids() bool {
	return p.HighestBid != nil && p.HighestBid.Sign() > 0
}

func (p *Prize) Status() string {
	switch {
	case !p.Exists():
		return "unknown"
	case p.Canceled:
		return "canceled"
	case p.Claimed:
		return "claimed"
	case p.Sold:
		return "sold"
	case p.HasBids():
		return "bidding"
	default:
		return "open"
	}
}

// Copy returns a deep copy, so handlers never mutate a cached record.
func (p *Prize) Copy() *Prize {
	cpy := *p
	cpy.StartingPrice = bigOrZero(p.StartingPrice)
	cpy.HighestBid = bigOrZero(p.HighestBid)
	if p.HighestBidder != nil {
		addr := *p.HighestBidder
		cpy.HighestBidder = &addr
	}
	if p.Winner != nil {
		addr := *p.Winner
		cpy.Winner = &addr
	}
	return &cpy
}

func (p *Prize) String() string {
	if !p.Exists() {
		return "Prize(unknown)"
	}
	return fmt.Sprintf("Prize(id=%v, name=%v, asset=%v, startingPrice=%v, highestBid=%v, highestBidder=%v, sold=%v, winner=%v, claimed=%v, canceled=%v, bids=%v)",
		p.ID, p.Name, p.AssetID, p.StartingPrice, p.HighestBid, AddressOrZero(p.HighestBidder), p.Sold, AddressOrZero(p.Winner), p.Claimed, p.Canceled, p.BidCount)
}

func bigOrZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b)
}
