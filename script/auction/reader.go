// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/state"
)

// Reader answers queries about prizes. It never fails: unknown ids read as zero values.
type Reader struct {
	auction *Auction
	state   *state.State
}

// Prize returns a copy of the full record.
func (r *Reader) Prize(id uint64) *meter.Prize {
	p := r.state.GetPrize(id)
	if !p.Exists() {
		return &meter.Prize{StartingPrice: new(big.Int), HighestBid: new(big.Int)}
	}
	return p.Copy()
}

func (r *Reader) Name(id uint64) string { return r.Prize(id).Name }

func (r *Reader) StartingPrice(id uint64) *big.Int { return r.Prize(id).StartingPrice }

func (r *Reader) HighestBid(id uint64) *big.Int { return r.Prize(id).HighestBid }

// HighestBidder is the zero address before any bid.
func (r *Reader) HighestBidder(id uint64) meter.Address {
	return meter.AddressOrZero(r.Prize(id).HighestBidder)
}

func (r *Reader) SoldStatus(id uint64) bool { return r.Prize(id).Sold }

func (r *Reader) ClaimStatus(id uint64) bool { return r.Prize(id).Claimed }

// Winner is the zero address until the auction is closed.
func (r *Reader) Winner(id uint64) meter.Address {
	return meter.AddressOrZero(r.Prize(id).Winner)
}

func (r *Reader) CancelStatus(id uint64) bool { return r.Prize(id).Canceled }

// OpenPrizeID is 0 when no auction is open.
func (r *Reader) OpenPrizeID() uint64 { return r.state.GetOpenPrizeID() }

func (r *Reader) PrizeCount() uint64 { return r.state.GetPrizeCount() }

// Balance is the amount held by the ledger.
func (r *Reader) Balance() *big.Int { return r.state.GetBalance(meter.AuctionModuleAddr) }

func (r *Reader) Operator() meter.Address { return r.auction.Operator() }

// AssetOwner returns the current holder of the asset backing prize id.
func (r *Reader) AssetOwner(id uint64) meter.Address {
	p := r.state.GetPrize(id)
	if !p.Exists() {
		return meter.Address{}
	}
	return r.auction.registry.OwnerOf(r.state, p.AssetID)
}
