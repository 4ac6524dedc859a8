// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	"github.com/pkg/errors"
)

var ErrUnsigned = errors.New("tx not signed")

// Transaction is an immutable tx type.
type Transaction struct {
	body body
	cache struct {
		signingHash atomic.Value
		signer      atomic.Value
		id          atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	ChainTag  byte
	Nonce     uint64
	Value     *big.Int
	Data      []byte
	Signature []byte
}

// ChainTag returns chain tag.
func (t *Transaction) ChainTag() byte {
	return t.body.ChainTag
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Value returns the native amount attached to the tx.
func (t *Transaction) Value() *big.Int {
	if t.body.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(t.body.Value)
}

// Data returns the script data carried by the tx.
func (t *Transaction) Data() []byte {
	return append([]byte(nil), t.body.Data...)
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// ID returns id of tx.
// ID = hash(signingHash, signer).
// It returns zero Bytes32 if signer not available.
func (t *Transaction) ID() (id meter.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	signer, err := t.Signer()
	if err != nil || signer.IsZero() {
		return
	}
	return meter.Blake2b(t.SigningHash().Bytes(), signer.Bytes())
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() (hash meter.Bytes32) {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.signingHash.Store(hash) }()

	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		t.body.ChainTag,
		t.body.Nonce,
		t.body.Value,
		t.body.Data,
	})
	if err != nil {
		return
	}

	hw.Sum(hash[:0])
	return
}

// Signer extract signer of tx from signature.
func (t *Transaction) Signer() (signer meter.Address, err error) {
	if len(t.body.Signature) == 0 {
		return meter.Address{}, ErrUnsigned
	}
	if cached := t.cache.signer.Load(); cached != nil {
		return cached.(meter.Address), nil
	}
	defer func() {
		if err == nil {
			t.cache.signer.Store(signer)
		}
	}()

	pub, err := crypto.SigToPub(t.SigningHash().Bytes(), t.body.Signature)
	if err != nil {
		return meter.Address{}, errors.Wrap(err, "recover signer")
	}
	signer = meter.Address(crypto.PubkeyToAddress(*pub))
	return
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// Sign signs the tx with the given key.
func (t *Transaction) Sign(key *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := crypto.Sign(t.SigningHash().Bytes(), key)
	if err != nil {
		return nil, err
	}
	return t.WithSignature(sig), nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

// Decode parses a raw rlp encoded tx.
func Decode(raw []byte) (*Transaction, error) {
	var t Transaction
	if err := rlp.DecodeBytes(raw, &t); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &t, nil
}

func (t *Transaction) String() string {
	var from string
	signer, err := t.Signer()
	if err != nil {
		from = "N/A"
	} else {
		from = signer.String()
	}

	return fmt.Sprintf(`
  Tx(%v)
  From:           %v
  ChainTag:       %v
  Nonce:          %v
  Value:          %v
  Data:           0x%x
  Signature:      0x%x
`, t.ID(), from, t.body.ChainTag, t.body.Nonce, t.Value(), t.body.Data, t.body.Signature)
}
