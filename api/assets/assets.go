// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/state"
	"github.com/pkg/errors"
)

type Assets struct {
	se *script.ScriptEngine
}

func New(se *script.ScriptEngine) *Assets {
	return &Assets{se}
}

func (a *Assets) handleGetInfo(w http.ResponseWriter, req *http.Request) error {
	reg := a.se.Registry()
	var supply uint64
	a.se.View(func(st *state.State) {
		supply = reg.TotalSupply(st)
	})
	return utils.WriteJSON(w, map[string]interface{}{
		"name":        reg.Name(),
		"symbol":      reg.Symbol(),
		"totalSupply": supply,
	})
}

// handleGetOwner returns the zero address for assets never minted.
func (a *Assets) handleGetOwner(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var owner meter.Address
	a.se.View(func(st *state.State) {
		owner = a.se.Registry().OwnerOf(st, id)
	})
	return utils.WriteJSON(w, map[string]*meter.Address{"owner": &owner})
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var n uint64
	a.se.View(func(st *state.State) {
		n = a.se.Registry().BalanceOf(st, addr)
	})
	return utils.WriteJSON(w, map[string]uint64{"balance": n})
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetInfo))
	sub.Path("/balance/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	sub.Path("/{id}/owner").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetOwner))
}
