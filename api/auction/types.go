// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/prize-auction/meter"
)

type Prize struct {
	ID            uint64                `json:"id"`
	Name          string                `json:"name"`
	AssetID       uint64                `json:"assetID"`
	StartingPrice *math.HexOrDecimal256 `json:"startingPrice"`
	HighestBid    *math.HexOrDecimal256 `json:"highestBid"`
	HighestBidder meter.Address         `json:"highestBidder"`
	Sold          bool                  `json:"sold"`
	Winner        meter.Address         `json:"winner"`
	Claimed       bool                  `json:"claimed"`
	Canceled      bool                  `json:"canceled"`
	Status        string                `json:"status"`
	BidCount      uint64                `json:"bidCount"`
	CreateTime    uint64                `json:"createTime"`
	CloseTime     uint64                `json:"closeTime"`
	ClaimTime     uint64                `json:"claimTime"`
}

type Status struct {
	OpenPrizeID uint64                `json:"openPrizeID"`
	PrizeCount  uint64                `json:"prizeCount"`
	Balance     *math.HexOrDecimal256 `json:"balance"`
	Operator    meter.Address         `json:"operator"`
}

func convertPrize(p *meter.Prize) *Prize {
	start := math.HexOrDecimal256(*p.StartingPrice)
	highest := math.HexOrDecimal256(*p.HighestBid)
	return &Prize{
		ID:            p.ID,
		Name:          p.Name,
		AssetID:       p.AssetID,
		StartingPrice: &start,
		HighestBid:    &highest,
		HighestBidder: meter.AddressOrZero(p.HighestBidder),
		Sold:          p.Sold,
		Winner:        meter.AddressOrZero(p.Winner),
		Claimed:       p.Claimed,
		Canceled:      p.Canceled,
		Status:        p.Status(),
		BidCount:      p.BidCount,
		CreateTime:    p.CreateTime,
		CloseTime:     p.CloseTime,
		ClaimTime:     p.ClaimTime,
	}
}
