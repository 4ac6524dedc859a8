// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// CancelBid ends an unsold auction. Escrowed bids are not refunded and the asset stays in custody.
func (a *Auction) CancelBid(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("CancelBid completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	if !a.guard.IsOperator(env.Caller()) {
		err = ErrUnauthorized
		return
	}

	state := env.GetState()
	prize := state.GetPrize(ab.PrizeID)
	switch {
	case !prize.Exists():
		err = ErrUnknownPrize
	case prize.Canceled:
		err = ErrPrizeCanceled
	case prize.Sold:
		err = ErrAlreadySold
	}
	if err != nil {
		return
	}

	prize = prize.Copy()
	prize.Canceled = true
	prize.CloseTime = env.GetTxCtx().Time
	state.SetPrize(prize)
	if state.GetOpenPrizeID() == prize.ID {
		state.SetOpenPrizeID(0)
	}

	emit(env, BidCanceledEvent, prize.ID, nil)
	a.logger.Info("auction canceled", "prize", prize.ID, "highestBid", prize.HighestBid)
	return
}
