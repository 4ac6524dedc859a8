// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

const (
	OP_CREATE   = uint32(1)
	OP_BID      = uint32(2)
	OP_CLOSE    = uint32(3)
	OP_CLAIM    = uint32(4)
	OP_CANCEL   = uint32(5)
	OP_WITHDRAW = uint32(6)
)

func GetOpName(op uint32) string {
	switch op {
	case OP_CREATE:
		return "CreatePrize"
	case OP_BID:
		return "Bid"
	case OP_CLOSE:
		return "CloseBid"
	case OP_CLAIM:
		return "ClaimPrize"
	case OP_CANCEL:
		return "CancelBid"
	case OP_WITHDRAW:
		return "Withdraw"
	default:
		return "Unknown"
	}
}
