// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Alloc credits an account at genesis. Balance is decimal or 0x-prefixed hex.
type Alloc struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// Genesis describes a ledger instance.
type Genesis struct {
	Name     string  `yaml:"name"`
	ChainTag byte    `yaml:"chainTag"`
	Operator string  `yaml:"operator"`
	Alloc    []Alloc `yaml:"alloc"`
}

// Load reads a genesis file in YAML.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML genesis.
func Parse(data []byte) (*Genesis, error) {
	var gene Genesis
	if err := yaml.UnmarshalStrict(data, &gene); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if _, _, err := gene.Build(); err != nil {
		return nil, err
	}
	return &gene, nil
}

// Build resolves the operator and the allocations.
func (g *Genesis) Build() (meter.Address, map[meter.Address]*big.Int, error) {
	operator, err := meter.ParseAddress(g.Operator)
	if err != nil {
		return meter.Address{}, nil, errors.WithMessage(err, "operator")
	}
	if operator.IsZero() {
		return meter.Address{}, nil, errors.New("operator: zero address")
	}
	alloc := make(map[meter.Address]*big.Int, len(g.Alloc))
	for i, a := range g.Alloc {
		addr, err := meter.ParseAddress(a.Address)
		if err != nil {
			return meter.Address{}, nil, errors.WithMessagef(err, "alloc #%d address", i)
		}
		balance, ok := math.ParseBig256(a.Balance)
		if !ok || balance.Sign() < 0 {
			return meter.Address{}, nil, errors.Errorf("alloc #%d balance: invalid amount %q", i, a.Balance)
		}
		if prev, dup := alloc[addr]; dup {
			balance = new(big.Int).Add(prev, balance)
		}
		alloc[addr] = balance
	}
	return operator, alloc, nil
}

// ID identifies the instance, it changes with any field.
func (g *Genesis) ID() meter.Bytes32 {
	data, err := rlp.EncodeToBytes(g)
	if err != nil {
		panic(err)
	}
	return meter.Blake2b(data)
}
