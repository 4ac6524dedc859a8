// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/pkg/errors"
)

var (
	ScriptPrefix  = [4]byte{0xff, 0xff, 0xff, 0xff}
	ScriptPattern = [4]byte{0xde, 0xad, 0xbe, 0xef} //pattern: deadbeef
)

const headerLen = len(ScriptPrefix) + len(ScriptPattern)

type ScriptData struct {
	Header  ScriptHeader
	Payload []byte
}

func (s *ScriptData) UniteHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()

	var bodyHash meter.Bytes32
	switch s.Header.ModID {
	case AUCTION_MODULE_ID:
		ab, err := auction.DecodeFromBytes(s.Payload)
		if err != nil {
			log.Debug("could not decode auction, use payload directly for unite hash")
			bodyHash = meter.Blake2b(s.Payload)
		} else {
			bodyHash = ab.UniteHash()
		}
	default:
		bodyHash = meter.Blake2b(s.Payload)
	}
	err := rlp.Encode(hw, []interface{}{
		s.Header.Version,
		s.Header.ModID,
		bodyHash,
	})
	if err != nil {
		return
	}

	hw.Sum(hash[:0])
	return
}

type ScriptHeader struct {
	Version uint32
	ModID   uint32
}

// Version returns the version
func (sh *ScriptHeader) GetVersion() uint32 { return sh.Version }
func (sh *ScriptHeader) GetModID() uint32   { return sh.ModID }

func (sh *ScriptHeader) String() string {
	return fmt.Sprintf("ScriptHeader:::  Version: %v, ModID: %v", sh.Version, sh.ModID)
}

// IsScriptData reports whether data carries the script prefix and pattern.
func IsScriptData(data []byte) bool {
	return len(data) >= headerLen &&
		bytes.Equal(data[:len(ScriptPrefix)], ScriptPrefix[:]) &&
		bytes.Equal(data[len(ScriptPrefix):headerLen], ScriptPattern[:])
}

// EncodeScriptData frames a module body: prefix | pattern | rlp(ScriptData).
func EncodeScriptData(body interface{}) ([]byte, error) {
	var modID uint32
	switch body.(type) {
	case auction.AuctionBody, *auction.AuctionBody:
		modID = AUCTION_MODULE_ID
	default:
		return nil, errors.New("unrecognized body")
	}
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return nil, errors.Wrap(err, "rlp encode body")
	}
	return new(Builder).SetModID(modID).SetPayload(payload).Bytes()
}

// DecodeScriptData checks the framing and decodes the script data behind it.
func DecodeScriptData(data []byte) (*ScriptData, error) {
	if !IsScriptData(data) {
		n := len(data)
		if n > headerLen {
			n = headerLen
		}
		return nil, errors.Wrapf(ErrNotScript, "header %v", hex.EncodeToString(data[:n]))
	}
	script := ScriptData{}
	if err := rlp.DecodeBytes(data[headerLen:], &script); err != nil {
		return nil, errors.Wrapf(ErrNotScript, "decode script data: %v", err)
	}
	return &script, nil
}
