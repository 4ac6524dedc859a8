// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/kv"
	"github.com/meterio/prize-auction/meter"
	"github.com/pkg/errors"
)

var (
	balancePrefix = []byte("b")
	storagePrefix = []byte("s")
)

// State is a write-back overlay on the kv store.
// Reads see pending writes first, nothing reaches the store until the stage is committed.
type State struct {
	kv      kv.GetPutter
	cache   *valueCache
	pending map[string][]byte
	journal []string // insertion order of pending keys
	err     error
}

// New create an state object.
func New(kv kv.GetPutter) *State {
	return newState(kv, nil)
}

func newState(kv kv.GetPutter, cache *valueCache) *State {
	return &State{
		kv:      kv,
		cache:   cache,
		pending: make(map[string][]byte),
	}
}

func (s *State) setError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns first occurred error.
func (s *State) Err() error {
	return s.err
}

func (s *State) get(key []byte) []byte {
	if v, ok := s.pending[string(key)]; ok {
		return v
	}
	if s.cache != nil {
		if v, ok := s.cache.get(key); ok {
			return v
		}
	}
	v, err := s.kv.Get(key)
	if err != nil {
		if !s.kv.IsNotFound(err) {
			s.setError(errors.Wrap(err, "state get"))
		}
		return nil
	}
	if s.cache != nil {
		s.cache.add(key, v)
	}
	return v
}

func (s *State) put(key, value []byte) {
	k := string(key)
	if _, ok := s.pending[k]; !ok {
		s.journal = append(s.journal, k)
	}
	s.pending[k] = value
}

func balanceKey(addr meter.Address) []byte {
	return append(append([]byte{}, balancePrefix...), addr.Bytes()...)
}

func storageKey(addr meter.Address, key meter.Bytes32) []byte {
	k := append(append([]byte{}, storagePrefix...), addr.Bytes()...)
	return append(k, key.Bytes()...)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr meter.Address) *big.Int {
	raw := s.get(balanceKey(addr))
	if len(raw) == 0 {
		return new(big.Int)
	}
	b := new(big.Int)
	if err := rlp.DecodeBytes(raw, b); err != nil {
		s.setError(errors.Wrap(err, "decode balance"))
		return new(big.Int)
	}
	return b
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr meter.Address, balance *big.Int) {
	if balance.Sign() < 0 {
		s.setError(errors.Errorf("negative balance for %v", addr))
		return
	}
	if balance.Sign() == 0 {
		s.put(balanceKey(addr), nil)
		return
	}
	raw, err := rlp.EncodeToBytes(balance)
	if err != nil {
		s.setError(err)
		return
	}
	s.put(balanceKey(addr), raw)
}

// SubBalance subtracts amount, returns false without change if the balance is short.
func (s *State) SubBalance(addr meter.Address, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}

	balance := s.GetBalance(addr)
	if balance.Cmp(amount) < 0 {
		return false
	}

	s.SetBalance(addr, new(big.Int).Sub(balance, amount))
	return true
}

// AddBalance adds amount to the balance.
func (s *State) AddBalance(addr meter.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	balance := s.GetBalance(addr)
	s.SetBalance(addr, new(big.Int).Add(balance, amount))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr meter.Address, key meter.Bytes32) meter.Bytes32 {
	raw := s.GetRawStorage(addr, key)
	if len(raw) == 0 {
		return meter.Bytes32{}
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		s.setError(err)
		return meter.Bytes32{}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return meter.Blake2b(raw)
	}
	return meter.BytesToBytes32(content)
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr meter.Address, key, value meter.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}

	v, err := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr meter.Address, key meter.Bytes32) rlp.RawValue {
	return s.get(storageKey(addr, key))
}

// SetRawStorage set storage value in rlp raw. Empty raw deletes the value.
func (s *State) SetRawStorage(addr meter.Address, key meter.Bytes32, raw rlp.RawValue) {
	s.put(storageKey(addr, key), raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr meter.Address, key meter.Bytes32, enc func() ([]byte, error)) {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr meter.Address, key meter.Bytes32, dec func([]byte) error) {
	raw := s.GetRawStorage(addr, key)
	if err := dec(raw); err != nil {
		s.setError(err)
	}
}

// Stage makes a stage object holding the pending changes.
func (s *State) Stage() *Stage {
	changes := make([]change, 0, len(s.journal))
	for _, k := range s.journal {
		changes = append(changes, change{key: []byte(k), value: s.pending[k]})
	}
	return newStage(s.kv, s.cache, changes, s.err)
}
