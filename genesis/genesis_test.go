// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/meterio/prize-auction/genesis"
	"github.com/meterio/prize-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
name: local
chainTag: 7
operator: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
alloc:
  - address: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
    balance: "1000"
  - address: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
    balance: "0x10"
  - address: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
    balance: "4"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0600))

	gene, err := genesis.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", gene.Name)
	assert.Equal(t, byte(7), gene.ChainTag)

	operator, alloc, err := gene.Build()
	require.NoError(t, err)
	assert.Equal(t, meter.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), operator)
	require.Len(t, alloc, 2)
	assert.Equal(t, 0, big.NewInt(20).Cmp(alloc[meter.MustParseAddress("0xd3ae78222beadb038203be21ed5ce7c9b1bff602")]))

	_, err = genesis.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	for _, doc := range []string{
		"operator: 0x01",
		"operator: \"0x0000000000000000000000000000000000000000\"",
		"operator: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\nalloc:\n  - address: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\n    balance: \"-1\"",
		"operator: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\nunknown: 1",
	} {
		_, err := genesis.Parse([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestDevnet(t *testing.T) {
	gene := genesis.NewDevnet()
	operator, alloc, err := gene.Build()
	require.NoError(t, err)
	assert.Equal(t, genesis.DevAccounts()[0].Address, operator)
	assert.Len(t, alloc, len(genesis.DevAccounts()))
	assert.Equal(t, gene.ID(), genesis.NewDevnet().ID())

	other := genesis.NewDevnet()
	other.ChainTag++
	assert.NotEqual(t, gene.ID(), other.ID())
}
