// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"errors"

	setypes "github.com/meterio/prize-auction/script/types"
)

var (
	ErrUnauthorized         = errors.New("caller is not the operator")
	ErrInvalidName          = errors.New("prize name is empty")
	ErrInvalidStartingPrice = errors.New("starting price must be positive")
	ErrAuctionAlreadyOpen   = errors.New("an auction is already open")
	ErrUnknownOrClosedPrize = errors.New("prize unknown or closed")
	ErrBidTooLow            = errors.New("bid too low")
	ErrNoBidsYet            = errors.New("no bids yet")
	ErrAlreadySold          = errors.New("prize already sold")
	ErrPrizeCanceled        = errors.New("prize canceled")
	ErrNotWinner            = errors.New("caller is not the winner")
	ErrAlreadyClaimed       = errors.New("prize already claimed")
	ErrNotEnoughSent        = errors.New("not enough sent")

	ErrUnknownPrize        = errors.New("unknown prize")
	ErrValueMismatch       = errors.New("attached value does not match bid amount")
	ErrInsufficientBalance = setypes.ErrInsufficientBalance
	ErrUnknownOpcode       = errors.New("unknown auction opcode")
	ErrMalformedBody       = errors.New("malformed auction body")
)

// IsRejection reports whether err is one of the ledger's own rejections,
// as opposed to a storage or decoding failure.
func IsRejection(err error) bool {
	for _, e := range []error{
		ErrUnauthorized, ErrInvalidName, ErrInvalidStartingPrice, ErrAuctionAlreadyOpen,
		ErrUnknownOrClosedPrize, ErrBidTooLow, ErrNoBidsYet, ErrAlreadySold, ErrPrizeCanceled,
		ErrNotWinner, ErrAlreadyClaimed, ErrNotEnoughSent, ErrUnknownPrize, ErrValueMismatch,
		ErrInsufficientBalance, ErrUnknownOpcode, ErrMalformedBody,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
