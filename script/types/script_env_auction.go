// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"errors"
	"math/big"

	"github.com/meterio/prize-auction/meter"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// from addr ==> AuctionModuleAddr
func (env *ScriptEnv) TransferToAuction(addr meter.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	state := env.GetState()
	if !state.SubBalance(addr, amount) {
		return ErrInsufficientBalance
	}

	log.Debug("transfer to auction", "from", addr, "amount", amount)
	state.AddBalance(meter.AuctionModuleAddr, amount)
	env.AddTransfer(addr, meter.AuctionModuleAddr, amount, meter.NativeToken)
	return nil
}

// AuctionModuleAddr ==> addr
func (env *ScriptEnv) TransferFromAuction(addr meter.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	state := env.GetState()
	if !state.SubBalance(meter.AuctionModuleAddr, amount) {
		return ErrInsufficientBalance
	}

	log.Debug("transfer from auction", "to", addr, "amount", amount)
	state.AddBalance(addr, amount)
	env.AddTransfer(meter.AuctionModuleAddr, addr, amount, meter.NativeToken)
	return nil
}

// AddAssetTransfer logs the move of a unique asset.
func (env *ScriptEnv) AddAssetTransfer(from, to meter.Address, assetID uint64) {
	env.AddTransfer(from, to, new(big.Int).SetUint64(assetID), meter.PrizeToken)
}
