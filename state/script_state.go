// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	"github.com/pkg/errors"
)

// GetPrize returns the prize record, an empty one if it was never created.
func (s *State) GetPrize(id uint64) (result *meter.Prize) {
	result = &meter.Prize{}
	s.DecodeStorage(meter.AuctionModuleAddr, meter.PrizeKey(id), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var p meter.Prize
		if err := rlp.DecodeBytes(raw, &p); err != nil {
			return errors.Wrapf(err, "decode prize %v", id)
		}
		result = &p
		return nil
	})
	return
}

func (s *State) SetPrize(p *meter.Prize) {
	s.EncodeStorage(meter.AuctionModuleAddr, meter.PrizeKey(p.ID), func() ([]byte, error) {
		return rlp.EncodeToBytes(p)
	})
}

// Open prize slot, 0 means no auction is open.
func (s *State) GetOpenPrizeID() uint64 {
	return s.getUint64(meter.AuctionModuleAddr, meter.KeyOpenPrizeID)
}

func (s *State) SetOpenPrizeID(id uint64) {
	s.setUint64(meter.AuctionModuleAddr, meter.KeyOpenPrizeID, id)
}

func (s *State) GetPrizeCount() uint64 {
	return s.getUint64(meter.AuctionModuleAddr, meter.KeyPrizeCount)
}

func (s *State) SetPrizeCount(n uint64) {
	s.setUint64(meter.AuctionModuleAddr, meter.KeyPrizeCount, n)
}

func (s *State) getUint64(addr meter.Address, key meter.Bytes32) uint64 {
	v := s.GetStorage(addr, key)
	return binary.BigEndian.Uint64(v[24:])
}

func (s *State) setUint64(addr meter.Address, key meter.Bytes32, n uint64) {
	var v meter.Bytes32
	binary.BigEndian.PutUint64(v[24:], n)
	s.SetStorage(addr, key, v)
}

// GetUint64 and SetUint64 expose counters kept by other modules.
func (s *State) GetUint64(addr meter.Address, key meter.Bytes32) uint64 {
	return s.getUint64(addr, key)
}

func (s *State) SetUint64(addr meter.Address, key meter.Bytes32, n uint64) {
	s.setUint64(addr, key, n)
}

// GetAddress reads an address stored under key, zero when absent.
func (s *State) GetAddress(addr meter.Address, key meter.Bytes32) meter.Address {
	v := s.GetStorage(addr, key)
	return meter.BytesToAddress(v[12:])
}

func (s *State) SetAddress(addr meter.Address, key meter.Bytes32, value meter.Address) {
	var v meter.Bytes32
	copy(v[12:], value.Bytes())
	s.SetStorage(addr, key, v)
}
