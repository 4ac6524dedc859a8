// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"log/slog"
	"time"

	"github.com/meterio/prize-auction/meter"
	setypes "github.com/meterio/prize-auction/script/types"
	"github.com/meterio/prize-auction/state"
	"github.com/pkg/errors"
)

// Guard decides who may run operator actions.
type Guard interface {
	IsOperator(addr meter.Address) bool
}

// OperatorGuard admits exactly one operator account.
type OperatorGuard struct {
	operator meter.Address
}

func NewOperatorGuard(operator meter.Address) *OperatorGuard {
	return &OperatorGuard{operator: operator}
}

func (g *OperatorGuard) IsOperator(addr meter.Address) bool {
	return !addr.IsZero() && addr == g.operator
}

func (g *OperatorGuard) Operator() meter.Address {
	return g.operator
}

// AssetRegistry keeps the unique assets put up for auction.
type AssetRegistry interface {
	Mint(st *state.State, to meter.Address) (uint64, error)
	Transfer(st *state.State, assetID uint64, from, to meter.Address) error
	OwnerOf(st *state.State, assetID uint64) meter.Address
}

// Auction is the prize ledger: one open lot at a time, bids escrowed on the module account.
type Auction struct {
	registry AssetRegistry
	guard    Guard
	logger   *slog.Logger
}

func NewAuction(registry AssetRegistry, guard Guard) *Auction {
	registerMetrics()
	return &Auction{
		registry: registry,
		guard:    guard,
		logger:   slog.Default().With("pkg", "auction"),
	}
}

// Operator returns the configured operator when the guard knows a single one.
func (a *Auction) Operator() meter.Address {
	if g, ok := a.guard.(interface{ Operator() meter.Address }); ok {
		return g.Operator()
	}
	return meter.Address{}
}

// Handle decodes the payload and runs the operation against env.
// On error the caller must discard the state held by env.
func (a *Auction) Handle(env *setypes.ScriptEnv, payload []byte) (*setypes.ScriptEngineOutput, error) {
	ab, err := DecodeFromBytes(payload)
	if err != nil {
		a.logger.Error("Decode script message failed", "error", err)
		return nil, errors.Wrap(ErrMalformedBody, err.Error())
	}

	start := time.Now()
	a.logger.Debug("received auction", "body", ab.String(), "caller", env.Caller(), "sent", env.Sent())
	switch {
	case !payable(ab.Opcode) && env.Sent().Sign() != 0 && ab.Opcode >= meter.OP_CREATE && ab.Opcode <= meter.OP_WITHDRAW:
		err = ErrValueMismatch
	case ab.Opcode == meter.OP_CREATE:
		err = a.CreatePrize(env, ab)
	case ab.Opcode == meter.OP_BID:
		err = a.Bid(env, ab)
	case ab.Opcode == meter.OP_CLOSE:
		err = a.CloseBid(env, ab)
	case ab.Opcode == meter.OP_CLAIM:
		err = a.ClaimPrize(env, ab)
	case ab.Opcode == meter.OP_CANCEL:
		err = a.CancelBid(env, ab)
	case ab.Opcode == meter.OP_WITHDRAW:
		err = a.Withdraw(env, ab)
	default:
		a.logger.Error("unknown Opcode", "Opcode", ab.Opcode)
		err = ErrUnknownOpcode
	}
	observe(ab.Opcode, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if err = env.GetState().Err(); err != nil {
		return nil, err
	}
	return env.GetOutput(), nil
}

// payable reports whether op may carry a value.
func payable(op uint32) bool {
	return op == meter.OP_BID || op == meter.OP_CLAIM
}

// UpdateGauges publishes the committed ledger state.
func (a *Auction) UpdateGauges(st *state.State) {
	openPrizeGauge.Set(float64(st.GetOpenPrizeID()))
	ledgerBalanceGauge.Set(weiToFloat(st.GetBalance(meter.AuctionModuleAddr)))
}

// Reader returns the read accessors over st.
func (a *Auction) Reader(st *state.State) *Reader {
	return &Reader{auction: a, state: st}
}
