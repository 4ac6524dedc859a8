// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the unique prize assets. Asset ids start at 1.
package registry

import (
	"errors"
	"log/slog"

	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/state"
)

const (
	Name   = "Prize"
	Symbol = "PRZ"
)

var (
	ErrUnknownAsset = errors.New("unknown asset")
	ErrNotOwner     = errors.New("not owner of asset")
	ErrZeroAddress  = errors.New("zero address")
)

// Registry is the native asset registry. It is stateless, all data lives in the given state.
type Registry struct {
	logger *slog.Logger
}

func New() *Registry {
	return &Registry{logger: slog.Default().With("pkg", "registry")}
}

func (r *Registry) Name() string   { return Name }
func (r *Registry) Symbol() string { return Symbol }

// Mint creates the next asset owned by to.
func (r *Registry) Mint(st *state.State, to meter.Address) (uint64, error) {
	if to.IsZero() {
		return 0, ErrZeroAddress
	}
	id := r.TotalSupply(st) + 1
	st.SetUint64(meter.RegistryModuleAddr, meter.KeyAssetSupply, id)
	st.SetAddress(meter.RegistryModuleAddr, meter.AssetOwnerKey(id), to)
	r.addHolding(st, to, 1)
	r.logger.Debug("asset minted", "id", id, "to", to)
	return id, st.Err()
}

// Transfer moves asset id from its owner to another account.
func (r *Registry) Transfer(st *state.State, id uint64, from, to meter.Address) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	owner := r.OwnerOf(st, id)
	if owner.IsZero() {
		return ErrUnknownAsset
	}
	if owner != from {
		return ErrNotOwner
	}
	st.SetAddress(meter.RegistryModuleAddr, meter.AssetOwnerKey(id), to)
	r.addHolding(st, from, -1)
	r.addHolding(st, to, 1)
	r.logger.Debug("asset transferred", "id", id, "from", from, "to", to)
	return st.Err()
}

// OwnerOf returns the owner of asset id, the zero address for unminted ids.
func (r *Registry) OwnerOf(st *state.State, id uint64) meter.Address {
	if id == 0 {
		return meter.Address{}
	}
	return st.GetAddress(meter.RegistryModuleAddr, meter.AssetOwnerKey(id))
}

// BalanceOf returns the number of assets held by owner.
func (r *Registry) BalanceOf(st *state.State, owner meter.Address) uint64 {
	return st.GetUint64(meter.RegistryModuleAddr, meter.HoldingKey(owner))
}

func (r *Registry) TotalSupply(st *state.State) uint64 {
	return st.GetUint64(meter.RegistryModuleAddr, meter.KeyAssetSupply)
}

func (r *Registry) addHolding(st *state.State, owner meter.Address, delta int64) {
	n := r.BalanceOf(st, owner)
	st.SetUint64(meter.RegistryModuleAddr, meter.HoldingKey(owner), uint64(int64(n)+delta))
}
