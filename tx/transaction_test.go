// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTx(t *testing.T) {
	trx := new(tx.Builder).ChainTag(1).
		Nonce(12345678).
		Value(big.NewInt(10000)).
		Data([]byte{0xff, 0xff, 0xff, 0xff, 0xde, 0xad, 0xbe, 0xef}).
		Build()

	assert.Equal(t, big.NewInt(10000), trx.Value())
	assert.Equal(t, []byte(nil), trx.Signature())
	_, err := trx.Signer()
	assert.Equal(t, tx.ErrUnsigned, err)
	assert.True(t, trx.ID().IsZero())

	k, _ := hex.DecodeString("7582be841ca040aa940fff6c05773129e135623e41acce3e0b8ba520dc1ae26a")
	priv, _ := crypto.ToECDSA(k)
	signed, err := trx.Sign(priv)
	require.NoError(t, err)

	assert.Equal(t, trx.SigningHash(), signed.SigningHash(), "signature is not part of the signing hash")
	signer, err := signed.Signer()
	require.NoError(t, err)
	assert.Equal(t, "0xd989829d88b0ed1b06edf5c50174ecfa64f14a64", signer.String())
	assert.Equal(t, meter.Blake2b(signed.SigningHash().Bytes(), signer.Bytes()), signed.ID())

	raw, err := rlp.EncodeToBytes(signed)
	require.NoError(t, err)
	decoded, err := tx.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, signed.ID(), decoded.ID())
	assert.Equal(t, signed.Data(), decoded.Data())
	assert.Equal(t, uint64(12345678), decoded.Nonce())
	assert.Equal(t, byte(1), decoded.ChainTag())
}

func TestTamperedTx(t *testing.T) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	trx, err := new(tx.Builder).ChainTag(1).Value(big.NewInt(1)).Build().Sign(priv)
	require.NoError(t, err)

	forged := new(tx.Builder).ChainTag(1).Value(big.NewInt(1000)).Build().WithSignature(trx.Signature())
	a, _ := trx.Signer()
	b, _ := forged.Signer()
	assert.NotEqual(t, a, b)
	assert.Equal(t, meter.Address(crypto.PubkeyToAddress(priv.PublicKey)), a)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := tx.Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}
