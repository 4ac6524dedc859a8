// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry_test

import (
	"testing"

	"github.com/meterio/prize-auction/lvldb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/registry"
	"github.com/meterio/prize-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndTransfer(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db)
	reg := registry.New()

	alice := meter.BytesToAddress([]byte("alice"))
	bob := meter.BytesToAddress([]byte("bob"))

	assert.Equal(t, "Prize", reg.Name())
	assert.Equal(t, "PRZ", reg.Symbol())
	assert.Equal(t, uint64(0), reg.TotalSupply(st))

	id, err := reg.Mint(st, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	id2, err := reg.Mint(st, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)

	assert.Equal(t, alice, reg.OwnerOf(st, 1))
	assert.Equal(t, uint64(2), reg.BalanceOf(st, alice))
	assert.Equal(t, uint64(2), reg.TotalSupply(st))

	assert.Equal(t, registry.ErrNotOwner, reg.Transfer(st, 1, bob, alice))
	assert.Equal(t, registry.ErrUnknownAsset, reg.Transfer(st, 3, alice, bob))
	assert.Equal(t, registry.ErrZeroAddress, reg.Transfer(st, 1, alice, meter.Address{}))

	require.NoError(t, reg.Transfer(st, 1, alice, bob))
	assert.Equal(t, bob, reg.OwnerOf(st, 1))
	assert.Equal(t, uint64(1), reg.BalanceOf(st, alice))
	assert.Equal(t, uint64(1), reg.BalanceOf(st, bob))

	assert.True(t, reg.OwnerOf(st, 0).IsZero())
	assert.True(t, reg.OwnerOf(st, 9).IsZero())

	_, err = reg.Mint(st, meter.Address{})
	assert.Equal(t, registry.ErrZeroAddress, err)
}
