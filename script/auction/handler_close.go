// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// CloseBid locks in the highest bidder as winner. No funds or assets move.
func (a *Auction) CloseBid(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("CloseBid completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	if !a.guard.IsOperator(env.Caller()) {
		err = ErrUnauthorized
		return
	}

	state := env.GetState()
	prize := state.GetPrize(ab.PrizeID)
	// also covers ids that were never created
	if !prize.HasBids() {
		err = ErrNoBidsYet
		return
	}
	if prize.Canceled {
		err = ErrPrizeCanceled
		return
	}
	if prize.Sold {
		err = ErrAlreadySold
		return
	}

	prize = prize.Copy()
	winner := *prize.HighestBidder
	prize.Sold = true
	prize.Winner = &winner
	prize.CloseTime = env.GetTxCtx().Time
	state.SetPrize(prize)
	if state.GetOpenPrizeID() == prize.ID {
		state.SetOpenPrizeID(0)
	}

	emit(env, BidClosedEvent, prize.ID, &BidClosed{Winner: winner, Amount: prize.HighestBid})
	a.logger.Info("auction closed", "prize", prize.ID, "winner", winner, "highestBid", prize.HighestBid)
	return
}
