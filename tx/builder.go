// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
)

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// ChainTag set chain tag.
func (b *Builder) ChainTag(tag byte) *Builder {
	b.body.ChainTag = tag
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Value set the attached native amount.
func (b *Builder) Value(value *big.Int) *Builder {
	if value == nil {
		b.body.Value = nil
		return b
	}
	b.body.Value = new(big.Int).Set(value)
	return b
}

// Data set script data.
func (b *Builder) Data(data []byte) *Builder {
	b.body.Data = append([]byte(nil), data...)
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	body := b.body
	if body.Value == nil {
		body.Value = new(big.Int)
	}
	return &Transaction{body: body}
}
