// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// ClaimPrize hands the asset to the winner against a payment of at least the highest bid.
// The payment comes on top of the escrowed bid.
func (a *Auction) ClaimPrize(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("ClaimPrize completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	caller := env.Caller()
	state := env.GetState()
	prize := state.GetPrize(ab.PrizeID)
	// a canceled lot never has a winner, report the cancellation instead
	if prize.Canceled {
		err = ErrPrizeCanceled
		return
	}
	if prize.Winner == nil || *prize.Winner != caller {
		err = ErrNotWinner
		return
	}
	if prize.Claimed {
		err = ErrAlreadyClaimed
		return
	}
	sent := env.Sent()
	if sent.Cmp(prize.HighestBid) < 0 {
		err = ErrNotEnoughSent
		return
	}

	if err = env.TransferToAuction(caller, sent); err != nil {
		return
	}
	if err = a.registry.Transfer(state, prize.AssetID, meter.AuctionModuleAddr, caller); err != nil {
		a.logger.Error("asset transfer failed", "prize", prize.ID, "asset", prize.AssetID, "err", err)
		return
	}
	env.AddAssetTransfer(meter.AuctionModuleAddr, caller, prize.AssetID)

	prize = prize.Copy()
	prize.Claimed = true
	prize.ClaimTime = env.GetTxCtx().Time
	state.SetPrize(prize)

	emit(env, PrizeClaimedEvent, prize.ID, &PrizeClaimed{Winner: caller, AssetID: prize.AssetID, Paid: sent})
	a.logger.Info("prize claimed", "prize", prize.ID, "winner", caller, "paid", sent)
	return
}
