// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// Bid escrows the attached value and makes the caller the highest bidder.
// Funds of outbid bidders stay with the ledger.
func (a *Auction) Bid(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("Bid completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	state := env.GetState()
	prize := state.GetPrize(ab.PrizeID)
	if !prize.IsOpen() {
		err = ErrUnknownOrClosedPrize
		return
	}

	amount := ab.amount()
	if amount.Cmp(prize.StartingPrice) <= 0 || amount.Cmp(prize.HighestBid) <= 0 {
		a.logger.Info("bid too low", "prize", prize.ID, "amount", amount, "startingPrice", prize.StartingPrice, "highestBid", prize.HighestBid)
		err = ErrBidTooLow
		return
	}
	if env.Sent().Cmp(amount) != 0 {
		err = ErrValueMismatch
		return
	}

	bidder := env.Caller()
	if err = env.TransferToAuction(bidder, amount); err != nil {
		a.logger.Info("not enough balance", "bidder", bidder, "amount", amount, "balance", state.GetBalance(bidder))
		return
	}

	prize = prize.Copy()
	prize.HighestBid = new(big.Int).Set(amount)
	prize.HighestBidder = &bidder
	prize.BidCount++
	state.SetPrize(prize)

	emit(env, BidPlacedEvent, prize.ID, &BidPlaced{Bidder: bidder, Amount: amount})
	a.logger.Info("bid placed", "prize", prize.ID, "bidder", bidder, "amount", amount)
	return
}
