// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
)

// Withdraw moves the whole ledger balance to the operator.
// The ledger is debited before the operator is credited.
func (a *Auction) Withdraw(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("Withdraw completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	operator := env.Caller()
	if !a.guard.IsOperator(operator) {
		err = ErrUnauthorized
		return
	}

	amount := env.GetState().GetBalance(meter.AuctionModuleAddr)
	if err = env.TransferFromAuction(operator, amount); err != nil {
		return
	}

	emit(env, WithdrawnEvent, 0, &Withdrawn{To: operator, Amount: amount})
	a.logger.Info("ledger withdrawn", "to", operator, "amount", amount)
	ret = amount.Bytes()
	return
}
