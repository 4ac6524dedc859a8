// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// CreatePrize mints a new asset into the ledger's custody and opens it for bidding.
// The new prize id is returned as 8 big-endian bytes of return data.
func (a *Auction) CreatePrize(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("CreatePrize completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	if !a.guard.IsOperator(env.Caller()) {
		err = ErrUnauthorized
		return
	}
	if ab.Name == "" {
		err = ErrInvalidName
		return
	}
	startingPrice := ab.startingPrice()
	if startingPrice.Sign() <= 0 {
		err = ErrInvalidStartingPrice
		return
	}

	state := env.GetState()
	if open := state.GetOpenPrizeID(); open != 0 {
		a.logger.Info("an auction is still open, close or cancel first", "prize", open)
		err = ErrAuctionAlreadyOpen
		return
	}

	assetID, err := a.registry.Mint(state, meter.AuctionModuleAddr)
	if err != nil {
		a.logger.Error("mint prize asset failed", "err", err)
		return
	}

	id := state.GetPrizeCount() + 1
	prize := meter.NewPrize(id, ab.Name, assetID, startingPrice, env.GetTxCtx().Time)
	state.SetPrize(prize)
	state.SetPrizeCount(id)
	state.SetOpenPrizeID(id)

	env.AddAssetTransfer(meter.Address{}, meter.AuctionModuleAddr, assetID)
	emit(env, PrizeCreatedEvent, id, &PrizeCreated{Name: prize.Name, AssetID: assetID, StartingPrice: prize.StartingPrice})
	a.logger.Info("prize created", "id", id, "name", prize.Name, "asset", assetID, "startingPrice", prize.StartingPrice)

	ret = meter.Uint64Bytes(id)
	return
}
