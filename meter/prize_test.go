// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrizeStatus(t *testing.T) {
	var unknown *meter.Prize
	assert.False(t, unknown.Exists())
	assert.Equal(t, "unknown", (&meter.Prize{}).Status())

	p := meter.NewPrize(1, "Painting", 7, big.NewInt(100), 1000)
	assert.True(t, p.IsOpen())
	assert.False(t, p.HasBids())
	assert.Equal(t, "open", p.Status())

	p.HighestBid = big.NewInt(150)
	bidder := meter.BytesToAddress([]byte("bidder"))
	p.HighestBidder = &bidder
	assert.Equal(t, "bidding", p.Status())

	p.Sold = true
	p.Winner = &bidder
	assert.False(t, p.IsOpen())
	assert.Equal(t, "sold", p.Status())

	p.Claimed = true
	assert.Equal(t, "claimed", p.Status())

	c := meter.NewPrize(2, "Vase", 8, big.NewInt(1), 0)
	c.Canceled = true
	assert.False(t, c.IsOpen())
	assert.Equal(t, "canceled", c.Status())
}

func TestPrizeCopy(t *testing.T) {
	start := big.NewInt(100)
	p := meter.NewPrize(1, "Painting", 7, start, 0)
	start.SetInt64(1)
	assert.Equal(t, 0, p.StartingPrice.Cmp(big.NewInt(100)))

	bidder := meter.BytesToAddress([]byte("bidder"))
	p.HighestBidder = &bidder
	p.HighestBid = big.NewInt(120)

	cpy := p.Copy()
	cpy.HighestBid.SetInt64(999)
	cpy.HighestBidder[0] = 0xff

	assert.Equal(t, 0, p.HighestBid.Cmp(big.NewInt(120)))
	assert.Equal(t, bidder, *p.HighestBidder)
	assert.Nil(t, cpy.Winner)
}

func TestPrizeRLP(t *testing.T) {
	p := meter.NewPrize(3, "Clock", 9, big.NewInt(50), 42)
	data, err := rlp.EncodeToBytes(p)
	require.NoError(t, err)

	var dec meter.Prize
	require.NoError(t, rlp.DecodeBytes(data, &dec))
	assert.Nil(t, dec.HighestBidder)
	assert.Nil(t, dec.Winner)
	assert.Equal(t, "Clock", dec.Name)
	assert.Equal(t, 0, dec.StartingPrice.Cmp(big.NewInt(50)))

	winner := meter.BytesToAddress([]byte("winner"))
	p.Winner = &winner
	p.Sold = true
	data2, err := rlp.EncodeToBytes(p)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(data, data2))

	require.NoError(t, rlp.DecodeBytes(data2, &dec))
	require.NotNil(t, dec.Winner)
	assert.Equal(t, winner, *dec.Winner)
}
