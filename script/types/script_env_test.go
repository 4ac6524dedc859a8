// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types_test

import (
	"math/big"
	"testing"

	"github.com/meterio/prize-auction/lvldb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script/types"
	"github.com/meterio/prize-auction/state"
	"github.com/meterio/prize-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuctionTransfers(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	alice := meter.BytesToAddress([]byte("alice"))
	st.AddBalance(alice, big.NewInt(100))
	env := types.NewScriptEnv(st, xenv.NewTransactionContext(meter.Bytes32{}, alice, nil, 0, 0))

	assert.Equal(t, types.ErrInsufficientBalance, env.TransferToAuction(alice, big.NewInt(101)))
	assert.Empty(t, env.GetTransfers())

	require.NoError(t, env.TransferToAuction(alice, big.NewInt(60)))
	assert.Equal(t, big.NewInt(40), st.GetBalance(alice))
	assert.Equal(t, big.NewInt(60), st.GetBalance(meter.AuctionModuleAddr))

	require.NoError(t, env.TransferFromAuction(alice, big.NewInt(10)))
	assert.Equal(t, big.NewInt(50), st.GetBalance(meter.AuctionModuleAddr))
	assert.Equal(t, types.ErrInsufficientBalance, env.TransferFromAuction(alice, big.NewInt(51)))

	out := env.GetOutput()
	require.Len(t, out.GetTransfers(), 2)
	assert.Equal(t, meter.AuctionModuleAddr, out.GetTransfers()[0].Recipient)
	assert.Equal(t, meter.NativeToken, out.GetTransfers()[1].Token)
	assert.Nil(t, out.GetData())
}
